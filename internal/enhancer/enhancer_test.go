package enhancer

import (
	"testing"

	"eventieBot/internal/models/domain"
)

func TestFallbackEnrichment(t *testing.T) {
	event := domain.Event{
		EventID:     "e1",
		Title:       "Digital Workshop",
		Description: "Learn computer basics",
		Location:    "Central Public Library",
	}

	got := FallbackEnrichment(event)

	if got.ConciseSummary != "Digital Workshop at Central Public Library" {
		t.Errorf("ConciseSummary = %q", got.ConciseSummary)
	}
	if got.LongSummary != "Learn computer basics" {
		t.Errorf("LongSummary = %q, want the description", got.LongSummary)
	}
	if got.TargetAudience != "general" {
		t.Errorf("TargetAudience = %q, want %q", got.TargetAudience, "general")
	}
	if got.EventCategory != "library_event" {
		t.Errorf("EventCategory = %q, want %q", got.EventCategory, "library_event")
	}
	if len(got.QnAPairs) != 2 {
		t.Errorf("QnAPairs = %d, want 2 defaults", len(got.QnAPairs))
	}

	// The base event fields must survive untouched.
	if got.EventID != "e1" || got.Title != "Digital Workshop" {
		t.Errorf("base fields changed: %+v", got)
	}
}
