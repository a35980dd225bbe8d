package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"eventieBot/internal/transport/httpServer/handlers/dto"
	"eventieBot/internal/utils"
	"eventieBot/internal/utils/logger/sl"

	"github.com/google/uuid"
)

const defaultSearchLimit = 10

type EventHandler struct {
	store    EventStore
	engine   SearchEngine
	ingestor IngestScheduler
	log      *slog.Logger
}

func NewEventHandler(log *slog.Logger, store EventStore, engine SearchEngine, ingestor IngestScheduler) *EventHandler {
	return &EventHandler{
		store:    store,
		engine:   engine,
		ingestor: ingestor,
		log:      log,
	}
}

// GetEvents handles GET /api/v1/events.
func (h *EventHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.EventHandler.GetEvents()"
	log := h.log.With(slog.String("op", op))

	events := h.store.All()
	response := dto.MapDomainToEventResponseList(events)

	if err := utils.Json(w, http.StatusOK, response); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}

// GetStats handles GET /api/v1/events/stats.
func (h *EventHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.EventHandler.GetStats()"
	log := h.log.With(slog.String("op", op))

	response := dto.MapStatsToResponse(h.store.Stats())

	if err := utils.Json(w, http.StatusOK, response); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}

// Search handles GET /api/v1/events/search?q=...&audience=...&category=...&limit=...
func (h *EventHandler) Search(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.EventHandler.Search()"
	log := h.log.With(slog.String("op", op))

	query := r.URL.Query().Get("q")
	if query == "" {
		h.respondError(log, fmt.Errorf("empty query parameter q"), w, http.StatusBadRequest)
		return
	}

	audience := r.URL.Query().Get("audience")
	category := r.URL.Query().Get("category")

	limit := defaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.respondError(log, fmt.Errorf("invalid limit: %s", raw), w, http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	recs := h.engine.Search(query, limit, audience, category)
	response := dto.MapRecommendationsToResponse(recs)

	log.Debug("search completed",
		slog.String("query", query),
		slog.Int("results", len(recs)),
	)

	if err := utils.Json(w, http.StatusOK, response); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}

// Ingest handles POST /api/v1/ingest. Auth-gated, runs the feed
// synchronously and reports the outcome.
func (h *EventHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.EventHandler.Ingest()"
	log := h.log.With(slog.String("op", op))

	var req dto.IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(log, fmt.Errorf("cannot decode json: %w", err), w, http.StatusBadRequest)
		return
	}

	if req.Path == "" {
		h.respondError(log, fmt.Errorf("empty feed path"), w, http.StatusBadRequest)
		return
	}
	if req.Format == "" {
		req.Format = "jsonl"
	}

	requestID := uuid.New()
	done, err := h.ingestor.AddJob(requestID, req.Feed, req.Format, req.Path, req.MaxEvents)
	if err != nil {
		h.respondError(log, fmt.Errorf("failed to schedule ingestion: %w", err), w, http.StatusServiceUnavailable)
		return
	}

	log.Info("ingestion scheduled",
		slog.String("requestID", requestID.String()),
		slog.String("feed", req.Feed),
	)

	select {
	case <-r.Context().Done():
		h.respondError(log, fmt.Errorf("request cancelled: %w", r.Context().Err()), w, http.StatusRequestTimeout)
		return
	case result := <-done:
		if result.Err != nil {
			h.respondError(log, fmt.Errorf("ingestion failed: %w", result.Err), w, http.StatusInternalServerError)
			return
		}
		if err := utils.Json(w, http.StatusOK, result); err != nil {
			log.Error("error encoding response", sl.Err(err))
		}
	}
}

func (h *EventHandler) respondError(log *slog.Logger, err error, w http.ResponseWriter, status int) {
	log.Error("handler error", sl.Err(err))
	if httpErr := utils.Err(w, status, err); httpErr != nil {
		log.Error("error sending http response", sl.Err(httpErr))
	}
}
