package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters for the assistant and the
// ingest pipeline. It satisfies the dialogue controller's metrics
// interface.
type Metrics struct {
	Registry *prometheus.Registry

	turnsTotal           prometheus.Counter
	searchesTotal        prometheus.Counter
	extractionFallbacks  prometheus.Counter
	generationFallbacks  prometheus.Counter
	validationRejections prometheus.Counter
	eventsIngested       prometheus.Counter
	eventsDuplicate      prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		turnsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "eventie_dialogue_turns_total",
			Help: "Total number of dialogue turns processed.",
		}),
		searchesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "eventie_searches_total",
			Help: "Total number of search strategy executions.",
		}),
		extractionFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "eventie_extraction_fallbacks_total",
			Help: "Total number of keyword-based extraction fallbacks.",
		}),
		generationFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "eventie_generation_fallbacks_total",
			Help: "Total number of template-based response fallbacks.",
		}),
		validationRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "eventie_validation_rejections_total",
			Help: "Total number of rejected user inputs.",
		}),
		eventsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "eventie_events_ingested_total",
			Help: "Total number of events inserted into the store.",
		}),
		eventsDuplicate: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "eventie_events_duplicate_total",
			Help: "Total number of duplicate events skipped.",
		}),
	}

	m.Registry.MustRegister(
		m.turnsTotal,
		m.searchesTotal,
		m.extractionFallbacks,
		m.generationFallbacks,
		m.validationRejections,
		m.eventsIngested,
		m.eventsDuplicate,
	)

	return m
}

func (m *Metrics) TurnProcessed()       { m.turnsTotal.Inc() }
func (m *Metrics) SearchRun()           { m.searchesTotal.Inc() }
func (m *Metrics) ExtractionFallback()  { m.extractionFallbacks.Inc() }
func (m *Metrics) GenerationFallback()  { m.generationFallbacks.Inc() }
func (m *Metrics) ValidationRejected()  { m.validationRejections.Inc() }
func (m *Metrics) EventsIngested(n int) { m.eventsIngested.Add(float64(n)) }
func (m *Metrics) EventsDuplicate(n int) {
	m.eventsDuplicate.Add(float64(n))
}
