// Package llm talks to the Ollama chat endpoint that writes assistant replies.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3"
	// MaxTimeout bounds a single chat call regardless of configuration.
	MaxTimeout = 30 * time.Second
)

// FailureReason classifies why a chat call produced no reply.
type FailureReason string

const (
	ReasonDisabled   FailureReason = "disabled"
	ReasonTimeout    FailureReason = "timeout"
	ReasonConnection FailureReason = "connection"
	ReasonStatus     FailureReason = "status"
	ReasonMalformed  FailureReason = "malformed"
	ReasonEmpty      FailureReason = "empty"
)

// Failure describes an unsuccessful chat call.
type Failure struct {
	Reason FailureReason
	Err    error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return "llm " + string(f.Reason)
	}
	return fmt.Sprintf("llm %s: %v", f.Reason, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Result is the outcome of one chat call: Reply is set exactly when
// Failure is nil.
type Result struct {
	Reply   string
	Failure *Failure
}

// OK reports whether the call produced a reply.
func (r Result) OK() bool { return r.Failure == nil }

func failed(reason FailureReason, err error) Result {
	return Result{Failure: &Failure{Reason: reason, Err: err}}
}

// Message is one entry of the chat transcript.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Config holds configuration for the Ollama chat client.
type Config struct {
	Enabled bool
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client calls Ollama's /api/chat with streaming disabled.
type Client struct {
	enabled bool
	baseURL string
	model   string
	timeout time.Duration
	client  *http.Client
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

type chatResponse struct {
	Message *Message `json:"message"`
	Error   string   `json:"error"`
}

// NewClient creates a chat client. The timeout defaults to and is capped
// at MaxTimeout.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 || cfg.Timeout > MaxTimeout {
		cfg.Timeout = MaxTimeout
	}
	return &Client{
		enabled: cfg.Enabled,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

// Enabled reports whether the client will contact the model server.
func (c *Client) Enabled() bool { return c != nil && c.enabled }

// Model returns the configured chat model.
func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.model
}

// Chat sends messages and returns the assistant reply. It makes exactly
// one attempt; every failure is reported through Result.Failure.
func (c *Client) Chat(ctx context.Context, messages []Message) Result {
	if !c.Enabled() {
		return failed(ReasonDisabled, nil)
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(chatRequest{Model: c.model, Messages: messages, Stream: false})
	if err != nil {
		return failed(ReasonMalformed, fmt.Errorf("marshal request: %w", err))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return failed(ReasonConnection, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return failed(classify(err), fmt.Errorf("send request: %w", err))
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return failed(classify(err), fmt.Errorf("read response: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return failed(ReasonStatus, fmt.Errorf("ollama error (status %d): %s", resp.StatusCode, truncate(string(payload), 200)))
	}

	var out chatResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return failed(ReasonMalformed, fmt.Errorf("decode response: %w", err))
	}
	if out.Message == nil {
		return failed(ReasonMalformed, errors.New("response has no message"))
	}
	reply := strings.TrimSpace(out.Message.Content)
	if reply == "" {
		return failed(ReasonEmpty, nil)
	}
	return Result{Reply: reply}
}

// HealthCheck verifies the model server answers GET /api/tags.
func (c *Client) HealthCheck(ctx context.Context) error {
	if !c.Enabled() {
		return &Failure{Reason: ReasonDisabled}
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return &Failure{Reason: classify(err), Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &Failure{Reason: ReasonStatus, Err: fmt.Errorf("ollama health status %d", resp.StatusCode)}
	}
	return nil
}

func classify(err error) FailureReason {
	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return ReasonTimeout
	}
	return ReasonConnection
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
