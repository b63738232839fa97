package domain

import "context"

// TravelDocument is one destination fact sheet from the travel corpus.
type TravelDocument struct {
	Name        string `json:"name" yaml:"name" validate:"required"`
	Location    string `json:"location" yaml:"location"`
	Description string `json:"description" yaml:"description"`
	Price       string `json:"price" yaml:"price"`
	BestTime    string `json:"best_time" yaml:"best_time"`
	Tips        string `json:"tips" yaml:"tips"`
}

// DocumentVector pairs a document with its embedding.
type DocumentVector struct {
	Document TravelDocument
	Vector   []float64
}

// ScoredDocument is a ranked document with its relevance score.
type ScoredDocument struct {
	Document TravelDocument `json:"document"`
	Score    float64        `json:"score"`
}

// ChatTurn is one prior exchange supplied by the client.
type ChatTurn struct {
	User      string `json:"user"`
	Bot       string `json:"bot"`
	Timestamp string `json:"timestamp,omitempty"`
}

// ChatRequest is the inbound chat message.
type ChatRequest struct {
	UserInput           string     `json:"user_input" validate:"required"`
	ConversationHistory []ChatTurn `json:"conversation_history,omitempty"`
	UserID              any        `json:"user_id,omitempty"`
	Timestamp           string     `json:"timestamp,omitempty"`
}

// ChatResponse is what the assistant returns for one message.
type ChatResponse struct {
	Success     bool     `json:"success"`
	Response    string   `json:"response"`
	AIPowered   bool     `json:"ai_powered"`
	Suggestions []string `json:"suggestions"`
	ContextUsed *bool    `json:"context_used,omitempty"`
	RequestID   string   `json:"request_id,omitempty"`
}

// Embedder converts free text into a numeric vector representation.
// Implementations may require a preparation phase over the corpus.
type Embedder interface {
	Name() string
	Prepare(ctx context.Context, corpus []string) error
	Dimension() int
	Embed(ctx context.Context, text string) ([]float64, error)
}

// VectorStore persists document vectors and supports similarity search.
type VectorStore interface {
	Init(ctx context.Context, dimension int) error
	Upsert(ctx context.Context, docs []TravelDocument, vectors [][]float64) error
	Search(ctx context.Context, vector []float64, topK int) ([]ScoredDocument, error)
	Clear(ctx context.Context) error
}

// Ranker selects the documents most relevant to a query.
type Ranker interface {
	Name() string
	Rank(ctx context.Context, query string, topK int) []ScoredDocument
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}

// ChatService defines the operations exposed by the application core.
type ChatService interface {
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
	HealthCheck(ctx context.Context) error
	Mode() string
	ModelName() string
	Documents() []TravelDocument
}
