package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"eventieBot/internal/transport/httpServer/handlers/dto"
	"eventieBot/internal/utils"
	"eventieBot/internal/utils/logger/sl"

	"github.com/google/uuid"
)

type ChatHandler struct {
	dialogue DialogueService
	sessions SessionProvider
	log      *slog.Logger
}

func NewChatHandler(log *slog.Logger, dialogue DialogueService, sessions SessionProvider) *ChatHandler {
	return &ChatHandler{
		dialogue: dialogue,
		sessions: sessions,
		log:      log,
	}
}

// Chat handles POST /api/v1/chat. A missing session_id starts a fresh
// conversation.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.ChatHandler.Chat()"
	log := h.log.With(slog.String("op", op))

	var req dto.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(log, fmt.Errorf("cannot decode json: %w", err), w, http.StatusBadRequest)
		return
	}

	if req.SessionID == "" {
		req.SessionID = uuid.New().String()
	}

	sess := h.sessions.Get(req.SessionID)

	result, err := h.dialogue.HandleTurn(r.Context(), sess, req.Message)
	if err != nil {
		h.respondError(log, fmt.Errorf("failed to process turn: %w", err), w, http.StatusUnprocessableEntity)
		return
	}

	log.Debug("turn processed",
		slog.String("sessionID", req.SessionID),
		slog.String("state", string(result.State)),
	)

	response := dto.MapTurnResultToResponse(result)

	if err := utils.Json(w, http.StatusOK, response); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}

// Reset handles POST /api/v1/chat/reset.
func (h *ChatHandler) Reset(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.ChatHandler.Reset()"
	log := h.log.With(slog.String("op", op))

	var req dto.ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(log, fmt.Errorf("cannot decode json: %w", err), w, http.StatusBadRequest)
		return
	}

	if req.SessionID == "" {
		h.respondError(log, fmt.Errorf("empty session_id"), w, http.StatusBadRequest)
		return
	}

	h.sessions.Reset(req.SessionID)

	log.Debug("session reset", slog.String("sessionID", req.SessionID))

	if err := utils.Json(w, http.StatusOK, map[string]string{"status": "ok"}); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}

func (h *ChatHandler) respondError(log *slog.Logger, err error, w http.ResponseWriter, status int) {
	log.Error("handler error", sl.Err(err))
	if httpErr := utils.Err(w, status, err); httpErr != nil {
		log.Error("error sending http response", sl.Err(httpErr))
	}
}
