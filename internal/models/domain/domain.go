package domain

import "strings"

// QnAPair is one generated question/answer pair attached to an event.
type QnAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Event - domain model of a library event. Immutable after insertion
// into the store; enrichment fields are filled by the enhancer before
// the event reaches the store.
type Event struct {
	EventID     string `json:"event_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Location    string `json:"location"`
	URL         string `json:"url"`
	Category    string `json:"category"`
	Source      string `json:"source"`

	// Enrichment fields, optional.
	ConciseSummary string    `json:"concise_summary,omitempty"`
	LongSummary    string    `json:"long_summary,omitempty"`
	QnAPairs       []QnAPair `json:"qna_pairs,omitempty"`
	TargetAudience string    `json:"target_audience,omitempty"`
	EventCategory  string    `json:"event_category,omitempty"`
}

// Recommendation is an event with the relevance score attached for the
// current search. Never persisted, recomputed on every query.
type Recommendation struct {
	Event
	SimilarityScore float64 `json:"similarity_score"`
}

// Role of a conversation turn author.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one entry of the append-only conversation history.
type Turn struct {
	Role Role
	Text string
}

// PreferenceState holds the five preference slots collected over a
// conversation. An empty string means the slot is unset.
type PreferenceState struct {
	Context  string
	Date     string
	Time     string
	Location string
	Audience string

	// ConfidenceScore is clamped to [0,5]. The fallback extractor uses
	// it as an exact count of filled slots.
	ConfidenceScore float64
}

// SlotNames lists the preference slots in their canonical order.
var SlotNames = []string{"context", "date", "time", "location", "audience"}

// Slot returns the value of a named slot.
func (p PreferenceState) Slot(name string) string {
	switch name {
	case "context":
		return p.Context
	case "date":
		return p.Date
	case "time":
		return p.Time
	case "location":
		return p.Location
	case "audience":
		return p.Audience
	}
	return ""
}

// FilledCount returns how many of the five slots are set.
func (p PreferenceState) FilledCount() int {
	n := 0
	for _, name := range SlotNames {
		if p.Slot(name) != "" {
			n++
		}
	}
	return n
}

// Merge applies one turn's extraction result on top of the cumulative
// state. A set slot is never cleared by an unset extraction; a non-empty
// extracted value overwrites. An extraction with no slots at all leaves
// the state unchanged, whatever confidence it claims.
func (p PreferenceState) Merge(next PreferenceState) PreferenceState {
	if next.FilledCount() == 0 {
		return p
	}
	merged := p
	if v := strings.TrimSpace(next.Context); v != "" {
		merged.Context = v
	}
	if v := strings.TrimSpace(next.Date); v != "" {
		merged.Date = v
	}
	if v := strings.TrimSpace(next.Time); v != "" {
		merged.Time = v
	}
	if v := strings.TrimSpace(next.Location); v != "" {
		merged.Location = v
	}
	if v := strings.TrimSpace(next.Audience); v != "" {
		merged.Audience = v
	}
	if next.ConfidenceScore > merged.ConfidenceScore {
		merged.ConfidenceScore = next.ConfidenceScore
	}
	return merged
}

// ClampConfidence bounds a model-reported confidence to [0,5].
func ClampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 5 {
		return 5
	}
	return v
}

// StoreStats reports the store counters. Total should always equal
// Unique; a non-zero Duplicates value is a corruption sentinel.
type StoreStats struct {
	Total      int `json:"total_events"`
	Unique     int `json:"unique_events"`
	Duplicates int `json:"duplicate_events"`
}

// BatchResult reports the outcome of one batch insert.
type BatchResult struct {
	Inserted   int `json:"inserted"`
	Duplicates int `json:"duplicates"`
}
