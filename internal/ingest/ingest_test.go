package ingest

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"eventieBot/internal/config"
	"eventieBot/internal/ingest/feeds"
	"eventieBot/internal/models/domain"

	"github.com/google/uuid"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	return &config.Config{
		IngestConfig: config.IngestConfig{
			JobBufferSize: 4,
			WorkersCount:  1,
			Timeout:       10,
			MaxEvents:     50,
		},
	}
}

type fakeStore struct {
	mu       sync.Mutex
	existing map[string]struct{}
	batches  [][]domain.Event
}

func (f *fakeStore) Exists(eventID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.existing[eventID]
	return ok
}

func (f *fakeStore) PutBatch(ctx context.Context, events []domain.Event) (domain.BatchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, events)
	return domain.BatchResult{Inserted: len(events)}, nil
}

// fakeEnhancer echoes each event back with a marker category.
type fakeEnhancer struct{}

func (fakeEnhancer) AddJob(requestID uuid.UUID, event domain.Event) (chan domain.Event, error) {
	out := make(chan domain.Event, 1)
	event.EventCategory = "enhanced"
	out <- event
	close(out)
	return out, nil
}

func writeFeedFile(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "feed.jsonl")
	if err := os.WriteFile(path, []byte(lines), 0o644); err != nil {
		t.Fatalf("write feed: %v", err)
	}
	return path
}

func runService(t *testing.T, store *fakeStore) *Service {
	t.Helper()
	svc := New(testLogger(), testConfig(), store, fakeEnhancer{}, nil)
	go svc.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = svc.Shutdown(ctx)
	})
	return svc
}

func TestIngestEnhancesAndStores(t *testing.T) {
	path := writeFeedFile(t, `{"event_id":"e1","title":"A"}
{"event_id":"e2","title":"B"}
`)
	store := &fakeStore{existing: map[string]struct{}{}}
	svc := runService(t, store)

	done, err := svc.AddJob(uuid.New(), "test", "jsonl", path, 50)
	if err != nil {
		t.Fatalf("AddJob() error = %v", err)
	}

	result := <-done
	if result.Err != nil {
		t.Fatalf("ingest result error = %v", result.Err)
	}
	if result.Loaded != 2 || result.Result.Inserted != 2 {
		t.Errorf("result = %+v, want 2 loaded / 2 inserted", result)
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.batches) != 1 || len(store.batches[0]) != 2 {
		t.Fatalf("batches = %+v, want one batch of 2", store.batches)
	}
	for _, e := range store.batches[0] {
		if e.EventCategory != "enhanced" {
			t.Errorf("event %q stored without enrichment", e.EventID)
		}
	}
}

func TestIngestSkipsExistingEvents(t *testing.T) {
	path := writeFeedFile(t, `{"event_id":"old","title":"A"}
{"event_id":"new","title":"B"}
`)
	store := &fakeStore{existing: map[string]struct{}{"old": {}}}
	svc := runService(t, store)

	done, err := svc.AddJob(uuid.New(), "test", "jsonl", path, 50)
	if err != nil {
		t.Fatalf("AddJob() error = %v", err)
	}

	result := <-done
	if result.Err != nil {
		t.Fatalf("ingest result error = %v", result.Err)
	}
	if result.Result.Inserted != 1 || result.Result.Duplicates != 1 {
		t.Errorf("result = %+v, want 1 inserted / 1 duplicate", result.Result)
	}
}

func TestIngestClampsEventLimit(t *testing.T) {
	var lines string
	for i := 0; i < 10; i++ {
		lines += `{"event_id":"e` + string(rune('a'+i)) + `","title":"T"}` + "\n"
	}
	path := writeFeedFile(t, lines)
	store := &fakeStore{existing: map[string]struct{}{}}
	svc := runService(t, store)

	// A limit below the minimum is raised to it.
	done, err := svc.AddJob(uuid.New(), "test", "jsonl", path, 1)
	if err != nil {
		t.Fatalf("AddJob() error = %v", err)
	}

	result := <-done
	if result.Err != nil {
		t.Fatalf("ingest result error = %v", result.Err)
	}
	if result.Loaded != minEvents {
		t.Errorf("Loaded = %d, want clamped to %d", result.Loaded, minEvents)
	}
}

func TestIngestRejectsUnknownFormat(t *testing.T) {
	store := &fakeStore{existing: map[string]struct{}{}}
	svc := runService(t, store)

	if _, err := svc.AddJob(uuid.New(), "test", "xml", "whatever", 50); err == nil {
		t.Fatal("AddJob() with unknown format returned nil error")
	}
}

func TestIngestFallsBackToSamplesOnMissingFeed(t *testing.T) {
	store := &fakeStore{existing: map[string]struct{}{}}
	svc := runService(t, store)

	done, err := svc.AddJob(uuid.New(), "test", "jsonl", filepath.Join(t.TempDir(), "missing.jsonl"), 50)
	if err != nil {
		t.Fatalf("AddJob() error = %v", err)
	}

	result := <-done
	if result.Err != nil {
		t.Fatalf("ingest result error = %v", result.Err)
	}

	samples := feeds.SampleEvents()
	if result.Loaded != len(samples) || result.Result.Inserted != len(samples) {
		t.Errorf("result = %+v, want %d sample events stored", result, len(samples))
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.batches) != 1 || len(store.batches[0]) != len(samples) {
		t.Fatalf("batches = %+v, want one batch of %d samples", store.batches, len(samples))
	}
	if store.batches[0][0].EventID != samples[0].EventID {
		t.Errorf("stored %q, want sample event %q", store.batches[0][0].EventID, samples[0].EventID)
	}
}

func TestIngestFallsBackToSamplesOnEmptyFeed(t *testing.T) {
	path := writeFeedFile(t, "\n\n")
	store := &fakeStore{existing: map[string]struct{}{}}
	svc := runService(t, store)

	done, err := svc.AddJob(uuid.New(), "test", "jsonl", path, 50)
	if err != nil {
		t.Fatalf("AddJob() error = %v", err)
	}

	result := <-done
	if result.Err != nil {
		t.Fatalf("ingest result error = %v", result.Err)
	}
	if result.Loaded != len(feeds.SampleEvents()) {
		t.Errorf("Loaded = %d, want the sample feed", result.Loaded)
	}
}
