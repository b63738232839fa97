package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"travelchat/internal/domain"
	"travelchat/internal/logging"
	"travelchat/internal/service"
)

// maxBodyBytes bounds a chat request body.
const maxBodyBytes = 64 << 10

// ChatHandler serves the chat, health and document endpoints.
type ChatHandler struct {
	chatService domain.ChatService
	validate    *validator.Validate
	logger      arbor.ILogger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(chatService domain.ChatService, logger arbor.ILogger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		validate:    validator.New(),
		logger:      logger,
	}
}

// ChatHandler handles POST /api/chat and POST /travel-chat.
func (h *ChatHandler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	ctx := r.Context()
	requestID := logging.RequestID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
		ctx = logging.WithRequestID(ctx, requestID)
		w.Header().Set("X-Request-ID", requestID)
	}

	var req domain.ChatRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.logger.Warn().Err(err).Str("request_id", requestID).Msg("Failed to decode chat request")
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.UserInput = strings.TrimSpace(req.UserInput)
	if err := h.validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, "Missing user_input in request")
		return
	}

	resp, err := h.chatService.Chat(ctx, &req)
	if err != nil {
		if errors.Is(err, service.ErrEmptyInput) {
			WriteError(w, http.StatusBadRequest, "Missing user_input in request")
			return
		}
		h.logger.Error().Err(err).Str("request_id", requestID).Msg("Failed to generate chat response")
		WriteError(w, http.StatusInternalServerError, "Failed to generate response")
		return
	}
	if resp.RequestID == "" {
		resp.RequestID = requestID
	}
	WriteJSON(w, http.StatusOK, resp)
}

// HealthHandler handles GET /api/chat/health.
func (h *ChatHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	body := map[string]interface{}{
		"mode":  h.chatService.Mode(),
		"model": h.chatService.ModelName(),
	}
	if err := h.chatService.HealthCheck(r.Context()); err != nil {
		h.logger.Warn().Err(err).Msg("Chat model health check failed")
		body["healthy"] = false
		body["error"] = err.Error()
		WriteJSON(w, http.StatusServiceUnavailable, body)
		return
	}
	body["healthy"] = true
	WriteJSON(w, http.StatusOK, body)
}

// DocumentsHandler handles GET /api/documents.
func (h *ChatHandler) DocumentsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	docs := h.chatService.Documents()
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"count":     len(docs),
		"documents": docs,
	})
}
