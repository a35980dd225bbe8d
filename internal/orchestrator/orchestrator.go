package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"eventieBot/internal/config"
	"eventieBot/internal/ingest"
	"eventieBot/internal/utils/logger/sl"

	"github.com/google/uuid"
)

// Ingestor queues feed-ingestion jobs.
type Ingestor interface {
	AddJob(requestID uuid.UUID, feedName string, format string, path string, limit int) (chan ingest.IngestResult, error)
}

// Orchestrator schedules the configured feeds through the ingest
// service and waits for their completion.
type Orchestrator struct {
	logger          *slog.Logger
	cfg             *config.Config
	ingestor        Ingestor
	shutdownChannel chan struct{}
	mu              sync.Mutex
	pending         []chan ingest.IngestResult
}

func New(logger *slog.Logger, cfg *config.Config, ingestor Ingestor) *Orchestrator {
	op := "orchestrator.New()"
	log := logger.With(slog.String("op", op))

	log.Info("creating orchestrator")

	return &Orchestrator{
		logger:          logger,
		cfg:             cfg,
		ingestor:        ingestor,
		shutdownChannel: make(chan struct{}),
	}
}

// Start queues every configured feed once at startup.
func (o *Orchestrator) Start() {
	op := "orchestrator.Start()"
	log := o.logger.With(slog.String("op", op))

	if len(o.cfg.IngestConfig.Feeds) == 0 {
		log.Info("no feeds configured, skipping startup ingestion")
		return
	}

	for _, feed := range o.cfg.IngestConfig.Feeds {
		select {
		case <-o.shutdownChannel:
			return
		default:
		}

		if err := o.Schedule(feed.Name, feed.Format, feed.Path, o.cfg.IngestConfig.MaxEvents); err != nil {
			log.Error("failed to schedule feed", slog.String("feed", feed.Name), sl.Err(err))
		}
	}

	o.WaitAll()
	log.Info("startup ingestion completed")
}

// Schedule queues a single feed run.
func (o *Orchestrator) Schedule(feedName string, format string, path string, limit int) error {
	op := "orchestrator.Schedule()"
	log := o.logger.With(
		slog.String("op", op),
		slog.String("feed", feedName),
	)

	requestID := uuid.New()
	done, err := o.ingestor.AddJob(requestID, feedName, format, path, limit)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("feed scheduled", slog.String("requestID", requestID.String()))

	o.mu.Lock()
	o.pending = append(o.pending, done)
	o.mu.Unlock()

	return nil
}

// WaitAll blocks until every scheduled feed run has finished.
func (o *Orchestrator) WaitAll() {
	o.mu.Lock()
	pending := o.pending
	o.pending = nil
	o.mu.Unlock()

	for _, done := range pending {
		<-done
	}
}

// Shutdown stops scheduling new feeds.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("force exit orchestrator: %w", ctx.Err())
	default:
		close(o.shutdownChannel)
		return nil
	}
}
