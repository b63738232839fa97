package server

import "net/http"

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()
	h := s.app.ChatHandler

	// Chat (POST), rate limited
	mux.Handle("/api/chat", s.rateLimit(http.HandlerFunc(h.ChatHandler)))
	mux.Handle("/travel-chat", s.rateLimit(http.HandlerFunc(h.ChatHandler)))

	mux.HandleFunc("/api/chat/health", h.HealthHandler)  // GET - model reachability
	mux.HandleFunc("/api/documents", h.DocumentsHandler) // GET - loaded corpus

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return mux
}
