package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"eventieBot/internal/export"
	"eventieBot/internal/models/domain"
	"eventieBot/internal/utils"
	"eventieBot/internal/utils/logger/sl"

	"github.com/go-chi/chi/v5"
)

type ExportHandler struct {
	sessions SessionProvider
	log      *slog.Logger
}

func NewExportHandler(log *slog.Logger, sessions SessionProvider) *ExportHandler {
	return &ExportHandler{
		sessions: sessions,
		log:      log,
	}
}

// Calendar handles GET /api/v1/exports/{sessionId}/calendar.
func (h *ExportHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.ExportHandler.Calendar()"
	log := h.log.With(slog.String("op", op))

	pool, ok := h.poolFor(log, w, r)
	if !ok {
		return
	}

	ics := export.GenerateICS(pool)

	w.Header().Set("Content-Type", "text/calendar")
	w.Header().Set("Content-Disposition", `attachment; filename="library_events.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(ics)); err != nil {
		log.Error("error writing response", sl.Err(err))
	}
}

// CSV handles GET /api/v1/exports/{sessionId}/csv.
func (h *ExportHandler) CSV(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.ExportHandler.CSV()"
	log := h.log.With(slog.String("op", op))

	pool, ok := h.poolFor(log, w, r)
	if !ok {
		return
	}

	data, err := export.GenerateCSV(pool)
	if err != nil {
		h.respondError(log, fmt.Errorf("failed to generate csv: %w", err), w, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="library_events.csv"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(data)); err != nil {
		log.Error("error writing response", sl.Err(err))
	}
}

func (h *ExportHandler) poolFor(log *slog.Logger, w http.ResponseWriter, r *http.Request) ([]domain.Recommendation, bool) {
	sessionID := chi.URLParam(r, "sessionId")
	if sessionID == "" {
		h.respondError(log, fmt.Errorf("empty sessionId"), w, http.StatusBadRequest)
		return nil, false
	}

	pool := h.sessions.Get(sessionID).PoolSnapshot()
	if len(pool) == 0 {
		h.respondError(log, fmt.Errorf("no recommendations for session: %s", sessionID), w, http.StatusNotFound)
		return nil, false
	}
	return pool, true
}

func (h *ExportHandler) respondError(log *slog.Logger, err error, w http.ResponseWriter, status int) {
	log.Error("handler error", sl.Err(err))
	if httpErr := utils.Err(w, status, err); httpErr != nil {
		log.Error("error sending http response", sl.Err(httpErr))
	}
}
