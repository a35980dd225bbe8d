package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"eventieBot/internal/models/domain"
	"eventieBot/internal/utils/logger/sl"
)

// State of the per-turn dialogue machine. Every turn ends back at
// AWAITING_INPUT; the machine loops until an external reset.
type State string

const (
	StateAwaitingInput State = "AWAITING_INPUT"
	StateParsing       State = "PARSING"
	StateSufficient    State = "SUFFICIENT"
	StateInsufficient  State = "INSUFFICIENT"
	StateSearching     State = "SEARCHING"
	StateResponding    State = "RESPONDING"
	StateClarifying    State = "CLARIFYING"
)

const (
	// requiredSlots preferences (or confidenceThreshold) gate the search.
	requiredSlots       = 3
	confidenceThreshold = 3.0

	// strategyLimit asks each strategy for more results than shown, so
	// the merged pool can be re-ranked.
	strategyLimit = 15
	poolSize      = 10
	presentCount  = 3
)

// Searcher is the search engine slice the controller needs.
type Searcher interface {
	Search(query string, limit int, audienceFilter string, categoryFilter string) []domain.Recommendation
}

// Metrics receives dialogue counters. The metrics package implements
// it; tests pass NopMetrics.
type Metrics interface {
	TurnProcessed()
	SearchRun()
	ExtractionFallback()
	GenerationFallback()
	ValidationRejected()
}

// NopMetrics discards all counters.
type NopMetrics struct{}

func (NopMetrics) TurnProcessed()      {}
func (NopMetrics) SearchRun()          {}
func (NopMetrics) ExtractionFallback() {}
func (NopMetrics) GenerationFallback() {}
func (NopMetrics) ValidationRejected() {}

// TurnResult is the outcome of one processed turn.
type TurnResult struct {
	Reply       string
	State       State
	Sufficient  bool
	Preferences domain.PreferenceState
	// Recommendations are the presented results; Pool is the larger
	// retained set the session keeps for exports.
	Recommendations []domain.Recommendation
	Pool            []domain.Recommendation
}

// Controller drives one conversation turn: extraction, sufficiency
// check, search and response generation.
type Controller struct {
	logger         *slog.Logger
	extractor      *Extractor
	engine         Searcher
	model          Completer
	metrics        Metrics
	genMaxTokens   int
	genTemperature float32
	genTimeout     time.Duration
}

func NewController(
	logger *slog.Logger,
	extractor *Extractor,
	engine Searcher,
	model Completer,
	metrics Metrics,
	genMaxTokens int,
	genTemperature float32,
	genTimeout time.Duration,
) *Controller {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &Controller{
		logger:         logger,
		extractor:      extractor,
		engine:         engine,
		model:          model,
		metrics:        metrics,
		genMaxTokens:   genMaxTokens,
		genTemperature: genTemperature,
		genTimeout:     genTimeout,
	}
}

// Sufficient reports whether enough context is known to search: at
// least 3 of the 5 slots set, or confidence 3 and above. Evaluated on
// the merged cumulative state, so adding a slot can never flip it back.
func Sufficient(p domain.PreferenceState) bool {
	return p.FilledCount() >= requiredSlots || p.ConfidenceScore >= confidenceThreshold
}

// Strategies derives the ordered search queries from the merged state,
// most specific first: all set slots joined, then the best available
// narrower combination.
func Strategies(p domain.PreferenceState) []string {
	var strategies []string

	var all []string
	for _, slot := range []string{p.Context, p.Location, p.Audience, p.Date, p.Time} {
		if slot != "" {
			all = append(all, slot)
		}
	}
	if len(all) > 0 {
		strategies = append(strategies, strings.Join(all, " "))
	}

	switch {
	case p.Context != "" && p.Location != "" && p.Audience != "":
		strategies = append(strategies, fmt.Sprintf("%s %s %s", p.Context, p.Location, p.Audience))
	case p.Context != "" && p.Location != "":
		strategies = append(strategies, fmt.Sprintf("%s %s", p.Context, p.Location))
	case p.Context != "" && p.Audience != "":
		strategies = append(strategies, fmt.Sprintf("%s %s", p.Context, p.Audience))
	case p.Context != "":
		strategies = append(strategies, p.Context)
	case p.Location != "":
		strategies = append(strategies, p.Location)
	}

	return strategies
}

// HandleTurn processes one user utterance to completion. Validation
// failures are returned to the caller; every other failure is recovered
// internally so the conversation can always continue.
func (c *Controller) HandleTurn(ctx context.Context, sess *Session, input string) (TurnResult, error) {
	op := "assistant.Controller.HandleTurn()"
	log := c.logger.With(
		slog.String("op", op),
		slog.String("sessionID", sess.ID),
	)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := ValidateInput(input); err != nil {
		c.metrics.ValidationRejected()
		log.Warn("input rejected", sl.Err(err))
		return TurnResult{State: StateAwaitingInput}, err
	}

	c.metrics.TurnProcessed()
	sess.AppendTurn(domain.RoleUser, input)

	// PARSING
	extracted, err := c.extractor.Extract(ctx, input, sess.History)
	if err != nil {
		// The fallback runs silently; a dead model never kills the turn.
		c.metrics.ExtractionFallback()
		log.Warn("model extraction failed, using keyword fallback", sl.Err(err))
		extracted = c.extractor.ExtractFallback(input)
	}

	sess.Preferences = sess.Preferences.Merge(extracted)
	prefs := sess.Preferences

	if !Sufficient(prefs) {
		reply := BuildClarification(prefs)
		sess.AppendTurn(domain.RoleAssistant, reply)
		log.Debug("insufficient context",
			slog.Int("filled", prefs.FilledCount()),
			slog.Float64("confidence", prefs.ConfidenceScore),
		)
		return TurnResult{
			Reply:       reply,
			State:       StateClarifying,
			Preferences: prefs,
		}, nil
	}

	// SEARCHING: run every strategy, merge de-duplicating by event id
	// (first occurrence wins), re-rank and truncate.
	seen := make(map[string]struct{})
	var merged []domain.Recommendation
	for _, strategy := range Strategies(prefs) {
		c.metrics.SearchRun()
		for _, rec := range c.engine.Search(strategy, strategyLimit, "", "") {
			if _, ok := seen[rec.EventID]; ok {
				continue
			}
			seen[rec.EventID] = struct{}{}
			merged = append(merged, rec)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].SimilarityScore > merged[j].SimilarityScore
	})
	if len(merged) > poolSize {
		merged = merged[:poolSize]
	}

	if len(merged) == 0 {
		reply := NoMatchesMessage()
		sess.AppendTurn(domain.RoleAssistant, reply)
		return TurnResult{
			Reply:       reply,
			State:       StateResponding,
			Sufficient:  true,
			Preferences: prefs,
		}, nil
	}

	shown := merged
	if len(shown) > presentCount {
		shown = shown[:presentCount]
	}

	// RESPONDING
	reply, err := c.generateResponse(ctx, prefs, shown)
	if err != nil {
		c.metrics.GenerationFallback()
		log.Warn("response generation failed, using template", sl.Err(err))
		reply = FallbackRecommendation(prefs, len(merged))
	}

	sess.AppendTurn(domain.RoleAssistant, reply)
	sess.Pool = merged

	log.Info("turn completed",
		slog.Int("poolSize", len(merged)),
		slog.Int("shown", len(shown)),
	)

	return TurnResult{
		Reply:           reply,
		State:           StateResponding,
		Sufficient:      true,
		Preferences:     prefs,
		Recommendations: shown,
		Pool:            merged,
	}, nil
}

// generateResponse asks the model to phrase a personalized
// recommendation for the top events.
func (c *Controller) generateResponse(ctx context.Context, p domain.PreferenceState, recs []domain.Recommendation) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.genTimeout)
	defer cancel()

	var events strings.Builder
	for i, rec := range recs {
		summary := rec.ConciseSummary
		if summary == "" {
			summary = rec.Description
		}
		fmt.Fprintf(&events, `
Event %d: %s
Date: %s
Time: %s
Location: %s
Category: %s
Target Audience: %s
Summary: %s
`, i+1, rec.Title, orNotSpecified(rec.Date), orNotSpecified(rec.Time),
			orNotSpecified(rec.Location), orNotSpecified(rec.EventCategory),
			orNotSpecified(rec.TargetAudience), orNotSpecified(summary))
	}

	prompt := fmt.Sprintf(`You are Eventie, a warm and enthusiastic library event assistant. The user has provided their preferences and you need to give them personalized recommendations.

User preferences:
- Context: %s
- Date: %s
- Time: %s
- Location: %s
- Audience: %s

Available events:
%s
Provide a friendly, conversational response that:
1. Acknowledges their preferences warmly and shows what you understood
2. Recommends these events with specific reasons why each fits
3. Is enthusiastic and personal about each recommendation
4. Ends with an invitation to download their calendar

Format your response as a warm conversation, not a list.`,
		orNotSpecified(p.Context), orNotSpecified(p.Date), orNotSpecified(p.Time),
		orNotSpecified(p.Location), orNotSpecified(p.Audience), events.String())

	return c.model.Complete(ctx, prompt, c.genMaxTokens, c.genTemperature)
}

func orNotSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Not specified"
	}
	return s
}
