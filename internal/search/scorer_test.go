package search

import (
	"math"
	"strings"
	"testing"

	"eventieBot/internal/models/domain"
	"eventieBot/internal/store"
)

func entryFor(e domain.Event) store.Entry {
	parts := []string{
		e.Title, e.ConciseSummary, e.LongSummary,
		e.EventCategory, e.TargetAudience, e.Location, e.Date,
	}
	return store.Entry{Event: e, Surface: strings.ToLower(strings.Join(parts, "\n"))}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Digital Literacy Workshop", []string{"digital", "literacy", "workshop"}},
		{"tech-talk @ 7pm!", []string{"tech", "talk", "7pm"}},
		{"...", nil},
		{"", nil},
	}

	for _, tt := range tests {
		got := Tokenize(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("Tokenize(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Tokenize(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}

func TestScoreBlankQueryIsZero(t *testing.T) {
	entry := entryFor(domain.Event{Title: "Digital Literacy Workshop"})

	for _, query := range []string{"", "   ", "\t", "...!!!"} {
		if got := Score(query, entry); got != 0 {
			t.Errorf("Score(%q) = %v, want 0", query, got)
		}
	}
}

func TestScoreExactArithmetic(t *testing.T) {
	// query words {digital, workshop}: both in surface (0.30), no exact
	// phrase, both in title (0.20), topic boost for "digital" (0.10).
	entry := entryFor(domain.Event{Title: "Digital Literacy Workshop"})

	got := Score("digital workshop", entry)
	want := 0.30 + 0.20 + 0.10

	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Score() = %v, want %v", got, want)
	}
}

func TestScoreExactPhraseBonus(t *testing.T) {
	entry := entryFor(domain.Event{Title: "Digital Literacy Workshop"})

	partial := Score("digital workshop", entry)
	phrase := Score("digital literacy", entry)

	// "digital literacy" appears verbatim in the surface, so the exact
	// phrase term fires on top of the shared terms.
	if phrase <= partial {
		t.Errorf("phrase score %v not greater than partial score %v", phrase, partial)
	}
}

func TestScoreIsCappedAtOne(t *testing.T) {
	entry := entryFor(domain.Event{
		Title:          "digital",
		EventCategory:  "digital",
		TargetAudience: "digital",
		Location:       "digital",
	})

	if got := Score("digital", entry); got != 1.0 {
		t.Errorf("Score() = %v, want capped 1.0", got)
	}
}

func TestScoreWithinBounds(t *testing.T) {
	entries := []store.Entry{
		entryFor(domain.Event{Title: "Toddler Storytime", TargetAudience: "children", Location: "Jurong Regional Library"}),
		entryFor(domain.Event{Title: "Morning Yoga for Seniors", EventCategory: "wellness", Date: "this weekend"}),
		entryFor(domain.Event{}),
	}
	queries := []string{
		"technology workshop central morning weekend",
		"children storytelling jurong",
		"yoga",
		"completely unrelated query zzz",
	}

	for _, entry := range entries {
		for _, q := range queries {
			got := Score(q, entry)
			if got < 0 || got > 1 {
				t.Errorf("Score(%q, %q) = %v, out of [0,1]", q, entry.Event.Title, got)
			}
		}
	}
}

func TestScoreBoostsAccumulateAcrossVocabularies(t *testing.T) {
	// Surface and query share a topic, time, date and area keyword;
	// each vocabulary contributes once.
	event := domain.Event{
		Title:          "Technology Talk",
		ConciseSummary: "morning session this weekend in central singapore",
	}
	entry := entryFor(event)

	withBoosts := Score("technology morning weekend central", entry)
	topicOnly := Score("technology", entry)

	if withBoosts <= topicOnly {
		t.Errorf("multi-vocabulary query %v not greater than single %v", withBoosts, topicOnly)
	}
}

func TestScoreUnrelatedQueryIsZero(t *testing.T) {
	entry := entryFor(domain.Event{Title: "Toddler Storytime", Location: "Jurong Regional Library"})

	if got := Score("quantum blockchain seminar", entry); got != 0 {
		t.Errorf("Score() = %v, want 0 for unrelated query", got)
	}
}
