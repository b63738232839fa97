package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"travelchat/internal/domain"
	"travelchat/internal/fallback"
	"travelchat/internal/llm"
	"travelchat/internal/logging"
)

// ErrEmptyInput is returned for a blank user message.
var ErrEmptyInput = errors.New("user_input is required")

const (
	ModeAI       = "ai"
	ModeFallback = "fallback"

	// maxHistoryTurns bounds how much client-supplied history reaches the model.
	maxHistoryTurns = 5
)

// ChatModel is the language model the service talks to.
type ChatModel interface {
	Chat(ctx context.Context, messages []llm.Message) llm.Result
	HealthCheck(ctx context.Context) error
	Enabled() bool
	Model() string
}

// ChatService composes retrieval, the language model and the rule-based
// fallback into one reply. It is safe for concurrent use.
type ChatService struct {
	docs   []domain.TravelDocument
	ranker domain.Ranker
	model  ChatModel
	topK   int
	logger arbor.ILogger
}

// NewChatService creates the chat composer over a loaded corpus.
func NewChatService(docs []domain.TravelDocument, ranker domain.Ranker, model ChatModel, topK int, logger arbor.ILogger) *ChatService {
	if topK <= 0 {
		topK = 3
	}
	return &ChatService{docs: docs, ranker: ranker, model: model, topK: topK, logger: logger}
}

// Chat answers one message. The only error is ErrEmptyInput; every model
// failure is absorbed into a fallback reply.
func (s *ChatService) Chat(ctx context.Context, req *domain.ChatRequest) (*domain.ChatResponse, error) {
	if req == nil {
		return nil, ErrEmptyInput
	}
	input := strings.TrimSpace(req.UserInput)
	if input == "" {
		return nil, ErrEmptyInput
	}
	start := time.Now()
	requestID := logging.RequestID(ctx)

	s.logger.Info().
		Str("request_id", requestID).
		Int("message_length", len(input)).
		Int("history_turns", len(req.ConversationHistory)).
		Msg("Processing chat request")

	matched, err := s.retrieve(ctx, input)
	if err != nil {
		s.logger.Error().Err(err).Str("request_id", requestID).Msg("Retrieval failed, answering from rules")
		return s.fallbackResponse(input, nil, requestID, start), nil
	}
	contextText := BuildContext(matched)

	result := s.callModel(ctx, req, input, contextText)
	if !result.OK() {
		s.logger.Warn().
			Str("request_id", requestID).
			Str("reason", string(result.Failure.Reason)).
			Err(result.Failure.Err).
			Msg("Language model unavailable, answering from rules")
		return s.fallbackResponse(input, matched, requestID, start), nil
	}

	used := contextText != ""
	s.logger.Info().
		Str("request_id", requestID).
		Str("mode", ModeAI).
		Int("matched_documents", len(matched)).
		Dur("duration", time.Since(start)).
		Msg("Chat response generated")
	return &domain.ChatResponse{
		Success:     true,
		Response:    result.Reply,
		AIPowered:   true,
		Suggestions: fallback.Suggest(input, matched),
		ContextUsed: &used,
		RequestID:   requestID,
	}, nil
}

func (s *ChatService) retrieve(ctx context.Context, input string) (matched []domain.ScoredDocument, err error) {
	if s.ranker == nil {
		return nil, nil
	}
	defer func() {
		if r := recover(); r != nil {
			matched, err = nil, fmt.Errorf("ranker %s panicked: %v", s.ranker.Name(), r)
		}
	}()
	matched = s.ranker.Rank(ctx, input, s.topK)
	s.logger.Debug().
		Str("ranker", s.ranker.Name()).
		Int("matched_documents", len(matched)).
		Msg("Documents retrieved")
	return matched, nil
}

func (s *ChatService) callModel(ctx context.Context, req *domain.ChatRequest, input, contextText string) llm.Result {
	if s.model == nil {
		return llm.Result{Failure: &llm.Failure{Reason: llm.ReasonDisabled}}
	}
	return s.model.Chat(ctx, s.messages(req, input, contextText))
}

func (s *ChatService) messages(req *domain.ChatRequest, input, contextText string) []llm.Message {
	msgs := []llm.Message{{Role: "system", Content: BuildSystemPrompt(s.docs, contextText)}}
	history := req.ConversationHistory
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}
	for _, turn := range history {
		if u := strings.TrimSpace(turn.User); u != "" {
			msgs = append(msgs, llm.Message{Role: "user", Content: u})
		}
		if b := strings.TrimSpace(turn.Bot); b != "" {
			msgs = append(msgs, llm.Message{Role: "assistant", Content: b})
		}
	}
	return append(msgs, llm.Message{Role: "user", Content: input})
}

func (s *ChatService) fallbackResponse(input string, matched []domain.ScoredDocument, requestID string, start time.Time) *domain.ChatResponse {
	rule, reply := fallback.Match(input)
	s.logger.Info().
		Str("request_id", requestID).
		Str("mode", ModeFallback).
		Str("rule", rule).
		Dur("duration", time.Since(start)).
		Msg("Chat response generated")
	return &domain.ChatResponse{
		Success:     true,
		Response:    reply,
		AIPowered:   false,
		Suggestions: fallback.Suggest(input, matched),
		RequestID:   requestID,
	}
}

// HealthCheck reports whether the language model server is reachable.
func (s *ChatService) HealthCheck(ctx context.Context) error {
	if s.model == nil {
		return &llm.Failure{Reason: llm.ReasonDisabled}
	}
	return s.model.HealthCheck(ctx)
}

// Mode is ModeAI when a language model is configured, else ModeFallback.
func (s *ChatService) Mode() string {
	if s.model != nil && s.model.Enabled() {
		return ModeAI
	}
	return ModeFallback
}

// ModelName returns the configured chat model, "" when none.
func (s *ChatService) ModelName() string {
	if s.model == nil {
		return ""
	}
	return s.model.Model()
}

// Documents returns a copy of the corpus.
func (s *ChatService) Documents() []domain.TravelDocument {
	out := make([]domain.TravelDocument, len(s.docs))
	copy(out, s.docs)
	return out
}

// RankerName names the active retrieval strategy.
func (s *ChatService) RankerName() string {
	if s.ranker == nil {
		return "none"
	}
	return s.ranker.Name()
}
