package handlers

import (
	"context"

	"eventieBot/internal/assistant"
	"eventieBot/internal/ingest"
	"eventieBot/internal/models/domain"

	"github.com/google/uuid"
)

// DialogueService runs assistant turns for the chat endpoints.
type DialogueService interface {
	HandleTurn(ctx context.Context, sess *assistant.Session, input string) (assistant.TurnResult, error)
}

// SessionProvider owns the per-conversation sessions.
type SessionProvider interface {
	Get(id string) *assistant.Session
	Reset(id string)
}

// EventStore exposes the stored events to the read endpoints.
type EventStore interface {
	All() []domain.Event
	Stats() domain.StoreStats
}

// SearchEngine runs one relevance-ranked search.
type SearchEngine interface {
	Search(query string, limit int, audienceFilter string, categoryFilter string) []domain.Recommendation
}

// IngestScheduler queues feed-ingestion jobs for the admin endpoint.
type IngestScheduler interface {
	AddJob(requestID uuid.UUID, feedName string, format string, path string, limit int) (chan ingest.IngestResult, error)
}
