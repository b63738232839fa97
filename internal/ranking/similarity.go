package ranking

import (
	"context"
	"math"
	"sort"

	"github.com/ternarybob/arbor"

	"travelchat/internal/domain"
	"travelchat/internal/embedding"
)

// DefaultTopK is used whenever a caller passes topK <= 0.
const DefaultTopK = 3

// Cosine returns dot(a,b)/(|a|*|b|). A zero-norm vector or mismatched
// lengths score 0, never NaN.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	s := dot / (math.Sqrt(na) * math.Sqrt(nb))
	if math.IsNaN(s) {
		return 0
	}
	return s
}

// RankVectors scores every document vector against query and returns the
// topK best, highest first. Equal scores keep corpus order.
func RankVectors(query []float64, vectors []domain.DocumentVector, topK int) []domain.ScoredDocument {
	if len(vectors) == 0 {
		return []domain.ScoredDocument{}
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	scored := make([]domain.ScoredDocument, len(vectors))
	for i, dv := range vectors {
		scored[i] = domain.ScoredDocument{Document: dv.Document, Score: Cosine(query, dv.Vector)}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if topK > len(scored) {
		topK = len(scored)
	}
	return scored[:topK]
}

// SimilarityRanker ranks by embedding similarity and drops to the keyword
// ranker for any query the encoder cannot serve.
type SimilarityRanker struct {
	encoder  *embedding.Encoder
	store    domain.VectorStore
	fallback domain.Ranker
	logger   arbor.ILogger
}

// NewSimilarityRanker builds a ranker over an already populated store.
func NewSimilarityRanker(encoder *embedding.Encoder, store domain.VectorStore, fallback domain.Ranker, logger arbor.ILogger) *SimilarityRanker {
	return &SimilarityRanker{encoder: encoder, store: store, fallback: fallback, logger: logger}
}

// Name identifies the ranker in logs.
func (r *SimilarityRanker) Name() string { return "embedding:" + r.encoder.Name() }

// Rank implements domain.Ranker.
func (r *SimilarityRanker) Rank(ctx context.Context, query string, topK int) []domain.ScoredDocument {
	if topK <= 0 {
		topK = DefaultTopK
	}
	vec, ok := r.encoder.Encode(ctx, query)
	if !ok || isZero(vec) {
		r.logger.Debug().Msg("No usable query vector, using keyword ranking")
		return r.fallback.Rank(ctx, query, topK)
	}
	results, err := r.store.Search(ctx, vec, topK)
	if err != nil {
		r.logger.Warn().Err(err).Msg("Vector search failed, using keyword ranking")
		return r.fallback.Rank(ctx, query, topK)
	}
	if allNonPositive(results) {
		return r.fallback.Rank(ctx, query, topK)
	}
	return results
}

func isZero(vec []float64) bool {
	for _, v := range vec {
		if v != 0 {
			return false
		}
	}
	return true
}

func allNonPositive(results []domain.ScoredDocument) bool {
	for _, r := range results {
		if r.Score > 1e-9 {
			return false
		}
	}
	return true
}
