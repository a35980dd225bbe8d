package enhancer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"eventieBot/internal/config"
	"eventieBot/internal/models/domain"
	"eventieBot/internal/models/dto"
	"eventieBot/internal/utils/logger/sl"

	"github.com/google/uuid"
)

// Model is the completion collaborator the enhancer needs.
type Model interface {
	CompleteStructured(ctx context.Context, prompt string, schemaName string, out any, maxTokens int, temperature float32) error
}

// Job is one event waiting for enrichment. Result always receives
// exactly one event, enriched by the model or by the deterministic
// fallback, and is then closed.
type Job struct {
	requestID uuid.UUID
	event     domain.Event
	Result    chan domain.Event
}

// Enhancer runs a worker pool that enriches events with summaries, Q&A
// pairs and classification before they are stored.
type Enhancer struct {
	logger          *slog.Logger
	cfg             *config.Config
	model           Model
	jobs            chan Job
	shutdownChannel chan struct{}
	wg              *sync.WaitGroup
}

func New(logger *slog.Logger, cfg *config.Config, model Model) *Enhancer {
	op := "enhancer.New()"
	log := logger.With(slog.String("op", op))

	log.Info("creating enhancer service")

	return &Enhancer{
		logger:          logger,
		cfg:             cfg,
		model:           model,
		jobs:            make(chan Job, cfg.BotConfig.AI.JobBufferSize),
		shutdownChannel: make(chan struct{}),
		wg:              &sync.WaitGroup{},
	}
}

// Start launches the workers and blocks until they all stop.
func (s *Enhancer) Start() {
	op := "enhancer.Start()"
	log := s.logger.With(slog.String("op", op))

	for i := 0; i < s.cfg.BotConfig.AI.WorkersCount; i++ {
		s.wg.Add(1)
		go s.handleJob(i)
	}
	log.Info("enhancer service started", slog.Int("workers", s.cfg.BotConfig.AI.WorkersCount))

	s.wg.Wait()
}

// AddJob queues one event for enrichment.
func (s *Enhancer) AddJob(requestID uuid.UUID, event domain.Event) (chan domain.Event, error) {
	newJob := Job{
		requestID: requestID,
		event:     event,
		Result:    make(chan domain.Event, 1),
	}
	select {
	case <-s.shutdownChannel:
		return nil, fmt.Errorf("service is shutting down")
	default:
		if len(s.jobs) < s.cfg.BotConfig.AI.JobBufferSize {
			s.jobs <- newJob
			return newJob.Result, nil
		}
		return nil, fmt.Errorf("job buffer is full")
	}
}

func (s *Enhancer) handleJob(id int) {
	defer s.wg.Done()
	op := "enhancer.handleJob()"
	log := s.logger.With(
		slog.String("op", op),
		slog.Int("workerId", id),
	)

	log.Info("start enhancer job handler")

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
				slog.String("title", job.event.Title),
			)

			ctx, cancel := context.WithTimeout(context.Background(), s.cfg.BotConfig.AI.GetTimeout())
			enriched, err := s.enhanceEvent(ctx, job.event)
			cancel()

			if err != nil {
				// Enhancement must never block ingestion.
				joblog.Warn("enrichment failed, applying fallback", sl.Err(err))
				enriched = FallbackEnrichment(job.event)
			}

			job.Result <- enriched
			close(job.Result)

			joblog.Debug("enrichment completed", slog.String("category", enriched.EventCategory))
		}
	}
}

// enhanceEvent asks the model for the structured enrichment of one
// event.
func (s *Enhancer) enhanceEvent(ctx context.Context, event domain.Event) (domain.Event, error) {
	op := "enhancer.enhanceEvent()"

	prompt := fmt.Sprintf(`Based on this library event information:
Title: %s
Description: %s
Date: %s
Time: %s
Location: %s

Generate summaries, six question/answer pairs, a target audience and an
event category for the given JSON schema. Keep responses factual and
helpful for library event attendees.`,
		event.Title,
		event.Description,
		event.Date,
		event.Time,
		event.Location,
	)

	var schema dto.EventEnhancementSchema
	err := s.model.CompleteStructured(ctx, prompt, "eventEnhancementSchema", &schema,
		s.cfg.BotConfig.AI.EnhanceMaxTokens, s.cfg.BotConfig.AI.EnhanceTemperature)
	if err != nil {
		return domain.Event{}, fmt.Errorf("%s: %w", op, err)
	}

	return schema.ApplyToEvent(event), nil
}

// FallbackEnrichment fills the enrichment fields deterministically when
// the model is unavailable.
func FallbackEnrichment(event domain.Event) domain.Event {
	event.ConciseSummary = fmt.Sprintf("%s at %s", event.Title, event.Location)
	event.LongSummary = event.Description
	event.QnAPairs = []domain.QnAPair{
		{Question: "Who is this event for?", Answer: "All library members and the public"},
		{Question: "Do I need to register?", Answer: "Please check the library website for registration requirements"},
	}
	event.TargetAudience = "general"
	event.EventCategory = "library_event"
	return event
}

// Shutdown stops accepting jobs and lets workers drain.
func (s *Enhancer) Shutdown(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("force exit enhancer: %w", ctx.Err())
	default:
		close(s.shutdownChannel)
		close(s.jobs)
		return nil
	}
}
