package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"travelchat/internal/documents"
	"travelchat/internal/domain"
	"travelchat/internal/fallback"
	"travelchat/internal/llm"
	"travelchat/internal/logging"
	"travelchat/internal/ranking"
)

type panicRanker struct{}

func (panicRanker) Name() string { return "panic" }
func (panicRanker) Rank(context.Context, string, int) []domain.ScoredDocument {
	panic("index corrupted")
}

type countingRanker struct {
	calls int32
	inner domain.Ranker
}

func (r *countingRanker) Name() string { return "counting" }
func (r *countingRanker) Rank(ctx context.Context, q string, k int) []domain.ScoredDocument {
	atomic.AddInt32(&r.calls, 1)
	return r.inner.Rank(ctx, q, k)
}

func newService(t *testing.T, model ChatModel) *ChatService {
	t.Helper()
	docs := documents.Defaults()
	return NewChatService(docs, ranking.NewKeywordRanker(docs), model, 3, arbor.NewNoOpLogger())
}

func ollamaServer(t *testing.T, handler http.HandlerFunc) *llm.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return llm.NewClient(llm.Config{Enabled: true, BaseURL: srv.URL, Model: "llama3", Timeout: 500 * time.Millisecond})
}

func TestChat_Success(t *testing.T) {
	var systemPrompt string
	model := ollamaServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []llm.Message `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		systemPrompt = req.Messages[0].Content
		w.Write([]byte(`{"message":{"role":"assistant","content":"Goa shines from November to March."}}`))
	})
	svc := newService(t, model)

	resp, err := svc.Chat(context.Background(), &domain.ChatRequest{UserInput: "goa beach"})

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.True(t, resp.AIPowered)
	assert.Equal(t, "Goa shines from November to March.", resp.Response)
	require.NotNil(t, resp.ContextUsed)
	assert.True(t, *resp.ContextUsed)
	assert.Len(t, resp.Suggestions, 4)
	assert.Contains(t, systemPrompt, "Relevant travel information:")
	assert.Contains(t, systemPrompt, "Name: Goa Beaches")
}

func TestChat_SuccessWithoutContext(t *testing.T) {
	model := ollamaServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":{"content":"Namaste!"}}`))
	})

	resp, err := newService(t, model).Chat(context.Background(), &domain.ChatRequest{UserInput: "xyzzy"})

	require.NoError(t, err)
	assert.True(t, resp.AIPowered)
	require.NotNil(t, resp.ContextUsed)
	assert.False(t, *resp.ContextUsed)
}

func TestChat_ModelFailuresFallBack(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"status", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) }},
		{"malformed", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("not json")) }},
		{"empty", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"message":{"content":""}}`)) }},
		{"timeout", func(w http.ResponseWriter, r *http.Request) { <-r.Context().Done() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(t, ollamaServer(t, tt.handler))

			resp, err := svc.Chat(context.Background(), &domain.ChatRequest{UserInput: "tell me about goa budget trip"})

			require.NoError(t, err)
			assert.True(t, resp.Success)
			assert.False(t, resp.AIPowered)
			assert.Equal(t, fallback.Respond("tell me about goa budget trip"), resp.Response)
			assert.Nil(t, resp.ContextUsed)
			assert.Len(t, resp.Suggestions, 4)
		})
	}
}

func TestChat_DisabledModelFallsBack(t *testing.T) {
	svc := newService(t, llm.NewClient(llm.Config{Enabled: false}))

	resp, err := svc.Chat(context.Background(), &domain.ChatRequest{UserInput: "hello"})

	require.NoError(t, err)
	assert.False(t, resp.AIPowered)
	assert.Contains(t, resp.Response, "AtithiBot")
	assert.Equal(t, ModeFallback, svc.Mode())
}

func TestChat_NilModelFallsBack(t *testing.T) {
	svc := newService(t, nil)

	resp, err := svc.Chat(context.Background(), &domain.ChatRequest{UserInput: "kerala"})

	require.NoError(t, err)
	assert.False(t, resp.AIPowered)
	assert.Equal(t, "", svc.ModelName())
	assert.Error(t, svc.HealthCheck(context.Background()))
}

func TestChat_EmptyInput(t *testing.T) {
	ranker := &countingRanker{inner: ranking.NewKeywordRanker(documents.Defaults())}
	svc := NewChatService(documents.Defaults(), ranker, nil, 3, arbor.NewNoOpLogger())

	for _, in := range []string{"", "   ", "\n\t"} {
		resp, err := svc.Chat(context.Background(), &domain.ChatRequest{UserInput: in})
		assert.ErrorIs(t, err, ErrEmptyInput)
		assert.Nil(t, resp)
	}
	_, err := svc.Chat(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Equal(t, int32(0), atomic.LoadInt32(&ranker.calls))
}

func TestChat_RetrievalPanicFallsBack(t *testing.T) {
	var called int32
	model := ollamaServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&called, 1)
		w.Write([]byte(`{"message":{"content":"should not be used"}}`))
	})
	svc := NewChatService(documents.Defaults(), panicRanker{}, model, 3, arbor.NewNoOpLogger())

	resp, err := svc.Chat(context.Background(), &domain.ChatRequest{UserInput: "taj mahal"})

	require.NoError(t, err)
	assert.False(t, resp.AIPowered)
	assert.Equal(t, fallback.Respond("taj mahal"), resp.Response)
	assert.Len(t, resp.Suggestions, 4)
	assert.Equal(t, int32(0), atomic.LoadInt32(&called))
}

func TestChat_SendsRecentHistory(t *testing.T) {
	var got []llm.Message
	model := ollamaServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []llm.Message `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		got = req.Messages
		w.Write([]byte(`{"message":{"content":"ok"}}`))
	})
	history := make([]domain.ChatTurn, 8)
	for i := range history {
		history[i] = domain.ChatTurn{User: "question", Bot: "answer"}
	}

	_, err := newService(t, model).Chat(context.Background(), &domain.ChatRequest{UserInput: "and goa?", ConversationHistory: history})

	require.NoError(t, err)
	// system + 5 turns of two messages + current input
	require.Len(t, got, 1+2*maxHistoryTurns+1)
	assert.Equal(t, "system", got[0].Role)
	assert.Equal(t, "assistant", got[len(got)-2].Role)
	assert.Equal(t, llm.Message{Role: "user", Content: "and goa?"}, got[len(got)-1])
}

func TestChat_CarriesRequestID(t *testing.T) {
	ctx := logging.WithRequestID(context.Background(), "req-42")

	resp, err := newService(t, nil).Chat(ctx, &domain.ChatRequest{UserInput: "plan a trip"})

	require.NoError(t, err)
	assert.Equal(t, "req-42", resp.RequestID)
}

func TestChat_NonEmptyForAnyInput(t *testing.T) {
	svc := newService(t, nil)
	for _, in := range []string{"a", "🙂", "what?", strings.Repeat("x", 500)} {
		resp, err := svc.Chat(context.Background(), &domain.ChatRequest{UserInput: in})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Response)
		assert.Len(t, resp.Suggestions, 4)
	}
}

func TestService_Accessors(t *testing.T) {
	model := llm.NewClient(llm.Config{Enabled: true, Model: "mistral"})
	svc := newService(t, model)

	assert.Equal(t, ModeAI, svc.Mode())
	assert.Equal(t, "mistral", svc.ModelName())
	assert.Equal(t, "keyword", svc.RankerName())

	docs := svc.Documents()
	docs[0].Name = "changed"
	assert.Equal(t, "Taj Mahal", svc.Documents()[0].Name)
}

func TestBuildSystemPrompt(t *testing.T) {
	prompt := BuildSystemPrompt(documents.Defaults(), "")

	assert.Contains(t, prompt, "₹")
	assert.Contains(t, prompt, "under 200 words")
	assert.Contains(t, prompt, "• Udaipur Lake Palace, Udaipur, Rajasthan (₹15,000 per person)")
	assert.Contains(t, prompt, "book directly")
	assert.NotContains(t, prompt, "Relevant travel information:")
}

func TestBuildContext(t *testing.T) {
	matched := []domain.ScoredDocument{
		{Document: domain.TravelDocument{Name: "A", Price: "₹1"}},
		{Document: domain.TravelDocument{Name: "B"}},
	}

	assert.Equal(t, "Name: A\nPrice: ₹1\n\nName: B", BuildContext(matched))
	assert.Equal(t, "", BuildContext(nil))
}
