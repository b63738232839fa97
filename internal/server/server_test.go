package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"travelchat/internal/app"
	"travelchat/internal/config"
	"travelchat/internal/domain"
)

func newTestServer(t *testing.T, mutate func(*config.AppConfig)) *Server {
	t.Helper()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	cfg.Documents.Path = filepath.Join(t.TempDir(), "none.json")
	cfg.Chat.Enabled = false
	cfg.Server.RateLimitPerSec = 0
	if mutate != nil {
		mutate(cfg)
	}
	a, err := app.New(context.Background(), cfg, arbor.NewNoOpLogger())
	require.NoError(t, err)
	return New(a)
}

func do(s *Server, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestRoutes_ChatAndAlias(t *testing.T) {
	s := newTestServer(t, nil)

	for _, path := range []string{"/api/chat", "/travel-chat"} {
		rec := do(s, http.MethodPost, path, `{"user_input":"hello"}`, nil)

		require.Equal(t, http.StatusOK, rec.Code, path)
		var resp domain.ChatResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Suggestions, 4)
		assert.False(t, resp.AIPowered)
		assert.Equal(t, rec.Header().Get("X-Request-ID"), resp.RequestID)
	}
}

func TestRoutes_BlankInput(t *testing.T) {
	rec := do(newTestServer(t, nil), http.MethodPost, "/api/chat", `{"user_input":""}`, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRoutes_Healthz(t *testing.T) {
	rec := do(newTestServer(t, nil), http.MethodGet, "/healthz", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestRoutes_Documents(t *testing.T) {
	rec := do(newTestServer(t, nil), http.MethodGet, "/api/documents", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Kerala Backwaters")
}

func TestRoutes_HealthReportsModel(t *testing.T) {
	model := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"models":[]}`))
	}))
	defer model.Close()
	s := newTestServer(t, func(c *config.AppConfig) {
		c.Chat.Enabled = true
		c.Chat.ServerURL = model.URL
		c.Chat.Model = "mistral"
	})

	rec := do(s, http.MethodGet, "/api/chat/health", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["healthy"])
	assert.Equal(t, "ai", body["mode"])
	assert.Equal(t, "mistral", body["model"])
}

func TestMiddleware_ReusesValidRequestID(t *testing.T) {
	id := uuid.NewString()

	rec := do(newTestServer(t, nil), http.MethodGet, "/healthz", "", map[string]string{"X-Request-ID": id})

	assert.Equal(t, id, rec.Header().Get("X-Request-ID"))
}

func TestMiddleware_ReplacesInvalidRequestID(t *testing.T) {
	rec := do(newTestServer(t, nil), http.MethodGet, "/healthz", "", map[string]string{"X-Request-ID": "<script>"})

	_, err := uuid.Parse(rec.Header().Get("X-Request-ID"))
	assert.NoError(t, err)
}

func TestMiddleware_RateLimit(t *testing.T) {
	s := newTestServer(t, func(c *config.AppConfig) {
		c.Server.RateLimitPerSec = 0.001
		c.Server.RateLimitBurst = 2
	})

	codes := make([]int, 3)
	for i := range codes {
		codes[i] = do(s, http.MethodPost, "/api/chat", `{"user_input":"goa"}`, nil).Code
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	// non-chat routes are not limited
	assert.Equal(t, http.StatusOK, do(s, http.MethodGet, "/healthz", "", nil).Code)
}

func TestMiddleware_CORS(t *testing.T) {
	s := newTestServer(t, func(c *config.AppConfig) {
		c.Server.AllowedOrigins = []string{"http://localhost:5000"}
	})

	allowed := do(s, http.MethodOptions, "/api/chat", "", map[string]string{"Origin": "http://localhost:5000"})
	denied := do(s, http.MethodGet, "/healthz", "", map[string]string{"Origin": "http://evil.example"})

	assert.Equal(t, http.StatusNoContent, allowed.Code)
	assert.Equal(t, "http://localhost:5000", allowed.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, denied.Header().Get("Access-Control-Allow-Origin"))
}

func TestMiddleware_Recovery(t *testing.T) {
	s := newTestServer(t, nil)
	h := s.withMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}
