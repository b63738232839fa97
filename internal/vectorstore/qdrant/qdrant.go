package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"travelchat/internal/domain"
)

// Storage is a minimal REST client to Qdrant.
// It assumes cosine distance and creates the collection if missing.
type Storage struct {
	url        string
	apiKey     string
	collection string
	client     *http.Client
}

// Config configures the Qdrant REST client.
type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

// NewStorage creates a Qdrant-backed vector store.
func NewStorage(cfg Config) *Storage {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	if cfg.Collection == "" {
		cfg.Collection = "travel_documents"
	}
	return &Storage{
		url:        strings.TrimRight(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

func (s *Storage) collectionURL() string {
	return fmt.Sprintf("%s/collections/%s", s.url, s.collection)
}

// Init creates the collection with the given vector size.
func (s *Storage) Init(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	return s.do(ctx, http.MethodPut, s.collectionURL(), body, nil)
}

// Upsert stores one point per document. Point IDs are derived from the
// document name so re-indexing overwrites instead of duplicating.
func (s *Storage) Upsert(ctx context.Context, docs []domain.TravelDocument, vectors [][]float64) error {
	if len(docs) != len(vectors) {
		return errors.New("documents and vectors length mismatch")
	}
	points := make([]map[string]any, len(docs))
	for i, d := range docs {
		points[i] = map[string]any{
			"id":     PointID(d),
			"vector": vectors[i],
			"payload": map[string]any{
				"position":    i,
				"name":        d.Name,
				"location":    d.Location,
				"description": d.Description,
				"price":       d.Price,
				"best_time":   d.BestTime,
				"tips":        d.Tips,
			},
		}
	}
	return s.do(ctx, http.MethodPut, s.collectionURL()+"/points?wait=true", map[string]any{"points": points}, nil)
}

// PointID is the stable Qdrant point id for a document.
func PointID(d domain.TravelDocument) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("travelchat:"+d.Name)).String()
}

type searchResponse struct {
	Result []struct {
		Score   float64 `json:"score"`
		Payload struct {
			Name        string `json:"name"`
			Location    string `json:"location"`
			Description string `json:"description"`
			Price       string `json:"price"`
			BestTime    string `json:"best_time"`
			Tips        string `json:"tips"`
		} `json:"payload"`
	} `json:"result"`
}

// Search returns the topK nearest documents as scored by Qdrant.
func (s *Storage) Search(ctx context.Context, vector []float64, topK int) ([]domain.ScoredDocument, error) {
	if topK <= 0 {
		topK = 3
	}
	req := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}
	var resp searchResponse
	if err := s.do(ctx, http.MethodPost, s.collectionURL()+"/points/search", req, &resp); err != nil {
		return nil, err
	}
	results := make([]domain.ScoredDocument, 0, len(resp.Result))
	for _, r := range resp.Result {
		p := r.Payload
		results = append(results, domain.ScoredDocument{
			Document: domain.TravelDocument{
				Name:        p.Name,
				Location:    p.Location,
				Description: p.Description,
				Price:       p.Price,
				BestTime:    p.BestTime,
				Tips:        p.Tips,
			},
			Score: r.Score,
		})
	}
	return results, nil
}

// Clear drops the collection. A missing collection is not an error.
func (s *Storage) Clear(ctx context.Context) error {
	err := s.do(ctx, http.MethodDelete, s.collectionURL(), nil, nil)
	var se *statusError
	if errors.As(err, &se) && se.code == http.StatusNotFound {
		return nil
	}
	return err
}

type statusError struct {
	method string
	url    string
	code   int
	status string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("qdrant %s %s failed: %s", e.method, e.url, e.status)
}

func (s *Storage) do(ctx context.Context, method, url string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal qdrant request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("create qdrant request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant %s %s: %w", method, url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return &statusError{method: method, url: url, code: resp.StatusCode, status: resp.Status}
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode qdrant response: %w", err)
		}
	}
	return nil
}
