package ranking

import (
	"context"
	"sort"
	"strings"

	"travelchat/internal/documents"
	"travelchat/internal/domain"
)

// KeywordScore scores a document against a query: one point for each
// query token present in the document, plus half a point for each query
// token that is a substring of some document token.
func KeywordScore(queryTokens, docTokens map[string]struct{}) float64 {
	exact, partial := 0, 0
	for q := range queryTokens {
		if _, ok := docTokens[q]; ok {
			exact++
		}
		for d := range docTokens {
			if strings.Contains(d, q) {
				partial++
				break
			}
		}
	}
	return float64(exact) + 0.5*float64(partial)
}

// RankKeywords returns at most topK documents ordered by KeywordScore.
// Documents scoring zero are dropped, ties keep input order.
func RankKeywords(query string, docs []string, topK int) []string {
	idx := rankKeywordIndexes(query, docs, topK)
	out := make([]string, len(idx))
	for i, p := range idx {
		out[i] = docs[p.index]
	}
	return out
}

type indexScore struct {
	index int
	score float64
}

func rankKeywordIndexes(query string, docs []string, topK int) []indexScore {
	if topK <= 0 {
		topK = DefaultTopK
	}
	qset := tokenSet(query)
	if len(qset) == 0 {
		return nil
	}
	scored := make([]indexScore, 0, len(docs))
	for i, d := range docs {
		if s := KeywordScore(qset, tokenSet(d)); s > 0 {
			scored = append(scored, indexScore{i, s})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
	if topK < len(scored) {
		scored = scored[:topK]
	}
	return scored
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(s))
	m := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		m[f] = struct{}{}
	}
	return m
}

// KeywordRanker ranks the corpus by token overlap. It needs no encoder.
type KeywordRanker struct {
	docs  []domain.TravelDocument
	texts []string
}

// NewKeywordRanker indexes docs for keyword ranking.
func NewKeywordRanker(docs []domain.TravelDocument) *KeywordRanker {
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = documents.Text(d)
	}
	return &KeywordRanker{docs: docs, texts: texts}
}

// Name identifies the ranker in logs.
func (r *KeywordRanker) Name() string { return "keyword" }

// Rank implements domain.Ranker.
func (r *KeywordRanker) Rank(_ context.Context, query string, topK int) []domain.ScoredDocument {
	idx := rankKeywordIndexes(query, r.texts, topK)
	out := make([]domain.ScoredDocument, len(idx))
	for i, p := range idx {
		out[i] = domain.ScoredDocument{Document: r.docs[p.index], Score: p.score}
	}
	return out
}
