package tfidf

import (
	"context"
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"
)

var (
	errNotPrepared = errors.New("tfidf embedder not prepared")
	wordPattern    = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)
)

// Embedder is a local TF-IDF vectorizer fitted on the travel corpus.
// It needs no model server, which makes it the offline choice when a
// pretrained encoder is not reachable.
type Embedder struct {
	mu        sync.RWMutex
	terms     map[string]int
	idf       []float64
	stopwords map[string]struct{}
}

// NewEmbedder creates an unprepared TF-IDF embedder.
func NewEmbedder() *Embedder {
	return &Embedder{stopwords: stopwordSet()}
}

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return "tfidf" }

// Prepare builds the vocabulary and smoothed IDF weights from corpus.
func (e *Embedder) Prepare(_ context.Context, corpus []string) error {
	if len(corpus) == 0 {
		return errors.New("empty corpus for TF-IDF prepare")
	}
	docFreq := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range e.tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			docFreq[tok]++
		}
	}
	if len(docFreq) == 0 {
		return errors.New("no tokens found in corpus")
	}
	vocab := make([]string, 0, len(docFreq))
	for term := range docFreq {
		vocab = append(vocab, term)
	}
	// sorted so vector positions are stable across runs
	sort.Strings(vocab)

	n := float64(len(corpus))
	terms := make(map[string]int, len(vocab))
	idf := make([]float64, len(vocab))
	for i, term := range vocab {
		terms[term] = i
		idf[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1.0
	}

	e.mu.Lock()
	e.terms, e.idf = terms, idf
	e.mu.Unlock()
	return nil
}

// Dimension returns the vocabulary size, 0 before Prepare.
func (e *Embedder) Dimension() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.idf)
}

// Embed returns the L2-normalised TF-IDF vector of text. Text with no
// known terms yields a zero vector.
func (e *Embedder) Embed(_ context.Context, text string) ([]float64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.terms == nil {
		return nil, errNotPrepared
	}
	vec := make([]float64, len(e.idf))
	counts := make(map[int]int)
	total := 0
	for _, tok := range e.tokenize(text) {
		if idx, ok := e.terms[tok]; ok {
			counts[idx]++
			total++
		}
	}
	if total == 0 {
		return vec, nil
	}
	for idx, c := range counts {
		vec[idx] = float64(c) / float64(total) * e.idf[idx]
	}
	normalize(vec)
	return vec, nil
}

func (e *Embedder) tokenize(text string) []string {
	raw := wordPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, stop := e.stopwords[t]; !stop {
			out = append(out, t)
		}
	}
	return out
}

func normalize(vec []float64) {
	sum := 0.0
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
}

func stopwordSet() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
		"i", "me", "my", "we", "you", "your", "what", "which", "how", "tell", "please", "want",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
