package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	DefaultBaseURL = "http://localhost:11434"
	embedEndpoint  = "/api/embed"
	defaultTimeout = 30 * time.Second
)

// Option customises a Client.
type Option func(*Client)

// WithBaseURL points the client at a different Ollama server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// Client embeds text with a sentence-embedding model served by Ollama.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client

	mu        sync.Mutex
	dimension int
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
	Error      string      `json:"error"`
}

// NewClient creates an Ollama embeddings client for model.
func NewClient(model string, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		model:      model,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the identifier of this embedder implementation.
func (c *Client) Name() string { return "ollama" }

// Dimension returns the vector size learned from the first response.
func (c *Client) Dimension() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dimension
}

// Prepare embeds one corpus entry so the dimension is known before queries.
func (c *Client) Prepare(ctx context.Context, corpus []string) error {
	if len(corpus) == 0 {
		return nil
	}
	_, err := c.Embed(ctx, corpus[0])
	return err
}

// Embed returns the embedding of text.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	vecs, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("ollama returned %d vectors for 1 input", len(vecs))
	}
	return vecs[0], nil
}

// EmbedBatch embeds several texts in one request.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if c.model == "" {
		return nil, errors.New("ollama model is required")
	}
	if len(texts) == 0 {
		return nil, errors.New("no input texts provided")
	}
	body, err := json.Marshal(embedRequest{Model: c.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+embedEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ollama error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("ollama error: %s", out.Error)
	}
	for _, v := range out.Embeddings {
		if len(v) == 0 {
			return nil, errors.New("ollama returned an empty embedding")
		}
	}
	if len(out.Embeddings) > 0 {
		c.mu.Lock()
		if c.dimension == 0 {
			c.dimension = len(out.Embeddings[0])
		}
		c.mu.Unlock()
	}
	return out.Embeddings, nil
}
