package memory

import (
	"context"
	"errors"
	"sync"

	"travelchat/internal/domain"
	"travelchat/internal/ranking"
)

// Storage keeps document vectors in memory and scores them by brute-force
// cosine similarity. The corpus is small, so no index is needed.
type Storage struct {
	mu        sync.RWMutex
	dimension int
	entries   []domain.DocumentVector
}

// NewStorage creates an empty in-memory store.
func NewStorage() *Storage { return &Storage{} }

// Init fixes the vector dimension; every later vector must match it.
func (s *Storage) Init(_ context.Context, dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = dimension
	s.entries = nil
	return nil
}

// Upsert appends documents with their vectors.
func (s *Storage) Upsert(_ context.Context, docs []domain.TravelDocument, vectors [][]float64) error {
	if len(docs) != len(vectors) {
		return errors.New("documents and vectors length mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range vectors {
		if len(v) != s.dimension {
			return errors.New("vector dimension mismatch")
		}
	}
	for i := range docs {
		s.entries = append(s.entries, domain.DocumentVector{Document: docs[i], Vector: vectors[i]})
	}
	return nil
}

// Search returns the topK most similar documents, ties in insertion order.
func (s *Storage) Search(_ context.Context, vector []float64, topK int) ([]domain.ScoredDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dimension > 0 && len(vector) != s.dimension {
		return nil, errors.New("query dimension mismatch")
	}
	return ranking.RankVectors(vector, s.entries, topK), nil
}

// Clear drops every stored vector.
func (s *Storage) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	return nil
}

// Len returns the number of stored vectors.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
