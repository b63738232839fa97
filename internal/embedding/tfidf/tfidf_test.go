package tfidf

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbed_RequiresPrepare(t *testing.T) {
	_, err := NewEmbedder().Embed(context.Background(), "goa")

	assert.ErrorIs(t, err, errNotPrepared)
}

func TestEmbed_DeterministicAndNormalised(t *testing.T) {
	ctx := context.Background()
	e := NewEmbedder()
	require.NoError(t, e.Prepare(ctx, []string{"Taj Mahal Agra monument", "Goa beach nightlife", "Kerala backwaters houseboat"}))

	a, err := e.Embed(ctx, "goa beach")
	require.NoError(t, err)
	b, err := e.Embed(ctx, "goa beach")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, e.Dimension())
	sum := 0.0
	for _, v := range a {
		sum += v * v
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-9)
}

func TestEmbed_UnknownTermsGiveZeroVector(t *testing.T) {
	ctx := context.Background()
	e := NewEmbedder()
	require.NoError(t, e.Prepare(ctx, []string{"Goa beach nightlife"}))

	vec, err := e.Embed(ctx, "the of and")

	require.NoError(t, err)
	for _, v := range vec {
		assert.Zero(t, v)
	}
}

func TestPrepare_EmptyCorpus(t *testing.T) {
	assert.Error(t, NewEmbedder().Prepare(context.Background(), nil))
	assert.Error(t, NewEmbedder().Prepare(context.Background(), []string{"the and of"}))
}
