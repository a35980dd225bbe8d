package search

import (
	"io"
	"log/slog"
	"testing"

	"eventieBot/internal/models/domain"
	"eventieBot/internal/store"
)

type staticSource struct {
	entries []store.Entry
}

func (s staticSource) Entries() []store.Entry { return s.entries }

func testEngine(events ...domain.Event) *Engine {
	src := staticSource{}
	for _, e := range events {
		src.entries = append(src.entries, entryFor(e))
	}
	return NewEngine(slog.New(slog.NewTextHandler(io.Discard, nil)), src)
}

func TestSearchEmptyStore(t *testing.T) {
	e := testEngine()

	if got := e.Search("technology", 10, "", ""); len(got) != 0 {
		t.Errorf("Search() on empty store = %d results, want 0", len(got))
	}
}

func TestSearchDropsZeroScores(t *testing.T) {
	e := testEngine(
		domain.Event{EventID: "1", Title: "Digital Literacy Workshop"},
		domain.Event{EventID: "2", Title: "Toddler Storytime"},
	)

	got := e.Search("digital", 10, "", "")

	if len(got) != 1 {
		t.Fatalf("Search() = %d results, want 1", len(got))
	}
	if got[0].EventID != "1" {
		t.Errorf("Search()[0].EventID = %q, want %q", got[0].EventID, "1")
	}
}

func TestSearchSortsDescendingAndTruncates(t *testing.T) {
	e := testEngine(
		domain.Event{EventID: "weak", Title: "Craft corner", ConciseSummary: "digital"},
		domain.Event{EventID: "strong", Title: "Digital Workshop"},
		domain.Event{EventID: "mid", Title: "Digital painting"},
	)

	got := e.Search("digital workshop", 2, "", "")

	if len(got) != 2 {
		t.Fatalf("Search() = %d results, want 2 (limit)", len(got))
	}
	if got[0].EventID != "strong" {
		t.Errorf("top result = %q, want %q", got[0].EventID, "strong")
	}
	if got[0].SimilarityScore < got[1].SimilarityScore {
		t.Error("results not sorted descending")
	}
}

func TestSearchTiesKeepInsertionOrder(t *testing.T) {
	e := testEngine(
		domain.Event{EventID: "first", Title: "Digital Workshop"},
		domain.Event{EventID: "second", Title: "Digital Workshop"},
	)

	got := e.Search("digital", 10, "", "")

	if len(got) != 2 {
		t.Fatalf("Search() = %d results, want 2", len(got))
	}
	if got[0].EventID != "first" || got[1].EventID != "second" {
		t.Errorf("tie order = [%q, %q], want insertion order", got[0].EventID, got[1].EventID)
	}
}

func TestSearchAudienceAndCategoryFilters(t *testing.T) {
	events := []domain.Event{
		{EventID: "1", Title: "Digital Workshop", TargetAudience: "adults", EventCategory: "workshop"},
		{EventID: "2", Title: "Digital Storytime", TargetAudience: "children", EventCategory: "storytelling"},
	}

	tests := []struct {
		name     string
		audience string
		category string
		wantIDs  []string
	}{
		{"no filters", "", "", []string{"1", "2"}},
		{"wildcard filters", WildcardFilter, WildcardFilter, []string{"1", "2"}},
		{"audience filter", "children", "", []string{"2"}},
		{"category filter", "", "workshop", []string{"1"}},
		{"both filters exclude all", "children", "workshop", nil},
		{"filter is exact not substring", "child", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := testEngine(events...)
			got := e.Search("digital", 10, tt.audience, tt.category)

			if len(got) != len(tt.wantIDs) {
				t.Fatalf("Search() = %d results, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].EventID != id {
					t.Errorf("result[%d] = %q, want %q", i, got[i].EventID, id)
				}
			}
		})
	}
}
