package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"eventieBot/internal/models/domain"
	"eventieBot/internal/utils/logger/sl"
)

// Entry is the store-owned search projection of one event: the
// lower-cased text surface the scorer matches against. Recomputed
// whenever the event is (re)inserted, never mutated on its own.
type Entry struct {
	Event   domain.Event
	Surface string
}

// Store keeps events in insertion order, deduplicated by event_id, and
// persists the whole collection through a Snapshotter after every
// successful batch insert.
type Store struct {
	logger *slog.Logger
	snap   Snapshotter

	mu      sync.RWMutex
	events  []domain.Event
	entries []Entry
	ids     map[string]struct{}
}

// New creates a store and loads the previous snapshot. A corrupt or
// unreadable snapshot is logged and treated as an empty store; startup
// never fails because of it.
func New(logger *slog.Logger, snap Snapshotter) *Store {
	op := "store.New()"
	log := logger.With(slog.String("op", op))

	s := &Store{
		logger: logger,
		snap:   snap,
		ids:    make(map[string]struct{}),
	}

	data, err := snap.Load(context.Background())
	switch {
	case errors.Is(err, ErrNoSnapshot):
		log.Info("no previous snapshot, starting with empty store")
	case err != nil:
		log.Warn("could not load snapshot, starting with empty store", sl.Err(err))
	default:
		var events []domain.Event
		if err := json.Unmarshal(data, &events); err != nil {
			log.Warn("corrupt snapshot, starting with empty store", sl.Err(err))
			break
		}
		for _, e := range events {
			s.insert(e)
		}
		log.Info("snapshot loaded", slog.Int("events", len(s.events)))
	}

	return s
}

// insert appends an event unconditionally. Caller holds the lock (or is
// the constructor).
func (s *Store) insert(e domain.Event) {
	if e.EventID == "" {
		e.EventID = "unknown"
	}
	s.events = append(s.events, e)
	s.entries = append(s.entries, Entry{Event: e, Surface: buildSurface(e)})
	s.ids[e.EventID] = struct{}{}
}

// buildSurface builds the lexical search surface: lower-cased title,
// summaries, category, audience, location and date.
func buildSurface(e domain.Event) string {
	parts := []string{
		e.Title,
		e.ConciseSummary,
		e.LongSummary,
		e.EventCategory,
		e.TargetAudience,
		e.Location,
		e.Date,
	}
	return strings.ToLower(strings.Join(parts, "\n"))
}

// Put inserts a single event. Returns false when an event with the same
// event_id already exists; the duplicate is skipped, not an error.
// The snapshot is persisted when the event was inserted.
func (s *Store) Put(ctx context.Context, e domain.Event) (bool, error) {
	res, err := s.PutBatch(ctx, []domain.Event{e})
	if err != nil {
		return false, err
	}
	return res.Inserted == 1, nil
}

// PutBatch inserts all non-duplicate events of the batch and persists
// the snapshot. Atomic from the caller's point of view: when persisting
// fails the in-memory state is rolled back to the last persisted one and
// the error is surfaced.
func (s *Store) PutBatch(ctx context.Context, events []domain.Event) (domain.BatchResult, error) {
	op := "store.PutBatch()"
	log := s.logger.With(slog.String("op", op))

	s.mu.Lock()
	defer s.mu.Unlock()

	prevLen := len(s.events)

	var res domain.BatchResult
	for _, e := range events {
		id := e.EventID
		if id == "" {
			id = "unknown"
		}
		if _, exists := s.ids[id]; exists {
			res.Duplicates++
			log.Debug("skipping duplicate event",
				slog.String("eventID", id),
				slog.String("title", e.Title),
			)
			continue
		}
		s.insert(e)
		res.Inserted++
	}

	if res.Inserted == 0 {
		return res, nil
	}

	if err := s.persistLocked(ctx); err != nil {
		// Roll back so memory matches the last successful persist.
		rolledBack := s.events[prevLen:]
		for _, e := range rolledBack {
			delete(s.ids, e.EventID)
		}
		s.events = s.events[:prevLen]
		s.entries = s.entries[:prevLen]
		return domain.BatchResult{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("batch insert completed",
		slog.Int("inserted", res.Inserted),
		slog.Int("duplicates", res.Duplicates),
		slog.Int("total", len(s.events)),
	)

	return res, nil
}

func (s *Store) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(s.events)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.snap.Save(ctx, data); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Exists reports whether an event with the given id is stored.
func (s *Store) Exists(eventID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[eventID]
	return ok
}

// All returns the stored events in insertion order.
func (s *Store) All() []domain.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Event, len(s.events))
	copy(out, s.events)
	return out
}

// Entries returns the search projections in insertion order.
func (s *Store) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Stats recounts the collection. Total and Unique must agree; the
// Duplicates counter exists so callers can detect a corrupted
// collection rather than trust the invariant blindly.
func (s *Store) Stats() domain.StoreStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	unique := make(map[string]struct{}, len(s.events))
	for _, e := range s.events {
		unique[e.EventID] = struct{}{}
	}

	return domain.StoreStats{
		Total:      len(s.events),
		Unique:     len(unique),
		Duplicates: len(s.events) - len(unique),
	}
}

// Shutdown exists for symmetry with the other services; the store has
// no background work to stop.
func (s *Store) Shutdown(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("force exit store: %w", ctx.Err())
	default:
		return nil
	}
}
