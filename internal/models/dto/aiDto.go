package dto

import (
	"encoding/json"
	"fmt"
	"strings"

	"eventieBot/internal/models/domain"
)

// FlexibleStringSlice accepts either a single string or an array of
// strings during deserialization. Some models answer "families" where
// others answer ["families", "seniors"].
type FlexibleStringSlice []string

func (f *FlexibleStringSlice) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*f = arr
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "" {
			*f = []string{s}
		} else {
			*f = nil
		}
		return nil
	}

	return fmt.Errorf("expected string or []string, got %s", string(data))
}

// Join renders the values as one slash-separated string.
func (f FlexibleStringSlice) Join() string {
	return strings.Join(f, "/")
}

// PreferenceExtractionSchema is the structured response the extraction
// model must return. Slots the model cannot determine are null, never
// empty strings.
type PreferenceExtractionSchema struct {
	Context         *string `json:"context" description:"Extracted topic or interest, or null"`
	Date            *string `json:"date" description:"Extracted date preference, or null"`
	Time            *string `json:"time" description:"Extracted time preference, or null"`
	Location        *string `json:"location" description:"Extracted location preference, or null"`
	Audience        *string `json:"audience" description:"Extracted audience preference, or null"`
	ConfidenceScore float64 `json:"confidence_score" description:"How clearly preferences are expressed, 0 to 5"`
}

// ToDomain converts the schema into a preference state, trimming values
// and clamping the confidence to [0,5].
func (p PreferenceExtractionSchema) ToDomain() domain.PreferenceState {
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return strings.TrimSpace(*s)
	}

	return domain.PreferenceState{
		Context:         deref(p.Context),
		Date:            deref(p.Date),
		Time:            deref(p.Time),
		Location:        deref(p.Location),
		Audience:        deref(p.Audience),
		ConfidenceScore: domain.ClampConfidence(p.ConfidenceScore),
	}
}

// QnAPairSchema mirrors domain.QnAPair for the enhancement response.
type QnAPairSchema struct {
	Question string `json:"question" description:"The question an attendee would ask"`
	Answer   string `json:"answer" description:"A factual answer for library event attendees"`
}

// EventEnhancementSchema is the structured response of the enrichment
// model: summaries, Q&A pairs and classification for one event.
type EventEnhancementSchema struct {
	ConciseSummary string              `json:"concise_summary" description:"1-2 sentence summary for search, at least 20 words, positive perspective"`
	LongSummary    string              `json:"long_summary" description:"120-200 word detailed summary in promotional tone"`
	QnAPairs       []QnAPairSchema     `json:"qna_pairs" description:"Six question/answer pairs about the event"`
	TargetAudience FlexibleStringSlice `json:"target_audience" description:"families, seniors, students, professionals or general"`
	EventCategory  string              `json:"event_category" description:"workshop, talk, exhibition, program, class or festival"`
}

// ApplyToEvent overlays the enrichment onto an event. Only fields the
// model returned non-empty are applied.
func (e EventEnhancementSchema) ApplyToEvent(event domain.Event) domain.Event {
	if strings.TrimSpace(e.ConciseSummary) != "" {
		event.ConciseSummary = e.ConciseSummary
	}
	if strings.TrimSpace(e.LongSummary) != "" {
		event.LongSummary = e.LongSummary
	}
	if len(e.QnAPairs) > 0 {
		pairs := make([]domain.QnAPair, 0, len(e.QnAPairs))
		for _, q := range e.QnAPairs {
			pairs = append(pairs, domain.QnAPair{Question: q.Question, Answer: q.Answer})
		}
		event.QnAPairs = pairs
	}
	if audience := strings.TrimSpace(e.TargetAudience.Join()); audience != "" {
		event.TargetAudience = audience
	}
	if strings.TrimSpace(e.EventCategory) != "" {
		event.EventCategory = strings.ToLower(e.EventCategory)
	}
	return event
}
