package documents

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	docs := Load(filepath.Join(t.TempDir(), "documents.json"), arbor.NewNoOpLogger())

	require.NotEmpty(t, docs)
	assert.GreaterOrEqual(t, len(docs), 3)
	assert.Equal(t, Defaults(), docs)
}

func TestLoad_MalformedFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "documents.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name": "not an array"`), 0o644))

	docs := Load(path, arbor.NewNoOpLogger())

	assert.Equal(t, Defaults(), docs)
}

func TestLoad_ReadsFileAndSkipsInvalidRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "documents.json")
	data := `[
		{"name": "Hampi", "location": "Karnataka", "description": "Ruins of Vijayanagara", "price": "₹40", "best_time": "November to February", "tips": "Rent a bicycle"},
		{"location": "nowhere"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	docs := Load(path, arbor.NewNoOpLogger())

	require.Len(t, docs, 1)
	assert.Equal(t, "Hampi", docs[0].Name)
	assert.Equal(t, "November to February", docs[0].BestTime)
}

func TestLoad_NoValidRecordsFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "documents.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"tips": "no name"}]`), 0o644))

	docs := Load(path, arbor.NewNoOpLogger())

	assert.Equal(t, Defaults(), docs)
}

func TestStore_LoadsOnceAndReturnsCopies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "documents.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name": "Hampi"}]`), 0o644))
	store := NewStore(path, arbor.NewNoOpLogger())

	first := store.All()
	require.NoError(t, os.WriteFile(path, []byte(`[{"name": "Changed"}, {"name": "Twice"}]`), 0o644))
	first[0].Name = "mutated"
	second := store.All()

	require.Len(t, second, 1)
	assert.Equal(t, "Hampi", second[0].Name)
	assert.Equal(t, 1, store.Len())
}

func TestText_SkipsEmptyFields(t *testing.T) {
	doc := Defaults()[1]
	doc.Tips = ""

	text := Text(doc)

	assert.Contains(t, text, "Goa Beaches")
	assert.Contains(t, text, "November to March")
	assert.NotContains(t, text, "  ")
}

func TestFormat_LabelsFields(t *testing.T) {
	out := Format(Defaults()[0])

	assert.Contains(t, out, "Name: Taj Mahal")
	assert.Contains(t, out, "Price: ₹500 for Indians")
	assert.Contains(t, out, "Best time to visit: October to March")
}
