package ranking

import (
	"context"
	"errors"
	"fmt"

	"github.com/ternarybob/arbor"

	"travelchat/internal/documents"
	"travelchat/internal/domain"
	"travelchat/internal/embedding"
)

// Build resolves the ranking strategy once at startup. With a working
// encoder every document is embedded into store and a SimilarityRanker is
// returned; otherwise the KeywordRanker is used for the process lifetime.
func Build(ctx context.Context, docs []domain.TravelDocument, encoder *embedding.Encoder, store domain.VectorStore, logger arbor.ILogger) domain.Ranker {
	keyword := NewKeywordRanker(docs)
	if !encoder.Available() || store == nil {
		logger.Info().Str("ranker", keyword.Name()).Msg("No encoder configured, using keyword search")
		return keyword
	}
	if err := index(ctx, docs, encoder, store); err != nil {
		logger.Warn().Err(err).Str("encoder", encoder.Name()).Msg("Could not embed documents, using keyword search")
		return keyword
	}
	ranker := NewSimilarityRanker(encoder, store, keyword, logger)
	logger.Info().
		Str("ranker", ranker.Name()).
		Int("documents", len(docs)).
		Int("dimension", encoder.Dimension()).
		Msg("Embedding search enabled")
	return ranker
}

func index(ctx context.Context, docs []domain.TravelDocument, encoder *embedding.Encoder, store domain.VectorStore) error {
	if len(docs) == 0 {
		return errors.New("empty corpus")
	}
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = documents.Text(d)
	}
	if err := encoder.Prepare(ctx, texts); err != nil {
		return fmt.Errorf("prepare encoder: %w", err)
	}
	vectors := make([][]float64, len(texts))
	for i, t := range texts {
		vec, ok := encoder.Encode(ctx, t)
		if !ok {
			return fmt.Errorf("encode document %q", docs[i].Name)
		}
		if i > 0 && len(vec) != len(vectors[0]) {
			return fmt.Errorf("document %q has dimension %d, want %d", docs[i].Name, len(vec), len(vectors[0]))
		}
		vectors[i] = vec
	}
	if err := store.Clear(ctx); err != nil {
		return fmt.Errorf("clear vector store: %w", err)
	}
	if err := store.Init(ctx, len(vectors[0])); err != nil {
		return fmt.Errorf("init vector store: %w", err)
	}
	if err := store.Upsert(ctx, docs, vectors); err != nil {
		return fmt.Errorf("upsert vectors: %w", err)
	}
	return nil
}
