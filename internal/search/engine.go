package search

import (
	"log/slog"
	"sort"

	"eventieBot/internal/models/domain"
	"eventieBot/internal/store"
)

// WildcardFilter matches any value when passed as a filter.
const WildcardFilter = "Any"

// EventSource is the slice of the store the engine needs.
type EventSource interface {
	Entries() []store.Entry
}

// Engine ranks stored events against a free-text query.
type Engine struct {
	logger *slog.Logger
	source EventSource
}

func NewEngine(logger *slog.Logger, source EventSource) *Engine {
	return &Engine{
		logger: logger,
		source: source,
	}
}

// Search scores every stored event against the query, drops zero
// scores, sorts descending (stable, so ties keep insertion order) and
// truncates to limit. Filters are exact matches applied before scoring;
// empty or "Any" means no filter. An empty store yields an empty result.
func (e *Engine) Search(query string, limit int, audienceFilter string, categoryFilter string) []domain.Recommendation {
	op := "search.Engine.Search()"
	log := e.logger.With(slog.String("op", op))

	entries := e.source.Entries()
	if len(entries) == 0 {
		return nil
	}

	var scored []domain.Recommendation
	for _, entry := range entries {
		if audienceFilter != "" && audienceFilter != WildcardFilter &&
			entry.Event.TargetAudience != audienceFilter {
			continue
		}
		if categoryFilter != "" && categoryFilter != WildcardFilter &&
			entry.Event.EventCategory != categoryFilter {
			continue
		}

		score := Score(query, entry)
		if score <= 0 {
			continue
		}
		scored = append(scored, domain.Recommendation{
			Event:           entry.Event,
			SimilarityScore: score,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].SimilarityScore > scored[j].SimilarityScore
	})

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}

	log.Debug("search completed",
		slog.String("query", query),
		slog.Int("results", len(scored)),
	)

	return scored
}
