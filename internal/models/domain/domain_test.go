package domain

import "testing"

func TestFilledCount(t *testing.T) {
	tests := []struct {
		name string
		p    PreferenceState
		want int
	}{
		{"empty", PreferenceState{}, 0},
		{"one slot", PreferenceState{Context: "technology"}, 1},
		{"three slots", PreferenceState{Context: "arts", Location: "Central", Audience: "family"}, 3},
		{"whitespace does not count", PreferenceState{Context: "  "}, 0},
		{"all slots", PreferenceState{Context: "a", Date: "b", Time: "c", Location: "d", Audience: "e"}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.FilledCount(); got != tt.want {
				t.Errorf("FilledCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMergeOverwritesOnlyNonEmpty(t *testing.T) {
	prev := PreferenceState{Context: "technology", Location: "Central", ConfidenceScore: 2}
	next := PreferenceState{Location: "East", Audience: "family", ConfidenceScore: 1}

	got := prev.Merge(next)

	if got.Context != "technology" {
		t.Errorf("Context = %q, want kept %q", got.Context, "technology")
	}
	if got.Location != "East" {
		t.Errorf("Location = %q, want overwritten %q", got.Location, "East")
	}
	if got.Audience != "family" {
		t.Errorf("Audience = %q, want %q", got.Audience, "family")
	}
	if got.ConfidenceScore != 2 {
		t.Errorf("ConfidenceScore = %v, want max of both = 2", got.ConfidenceScore)
	}
}

func TestMergeEmptyExtractionLeavesStateUnchanged(t *testing.T) {
	prev := PreferenceState{Context: "arts", ConfidenceScore: 1}

	got := prev.Merge(PreferenceState{ConfidenceScore: 4})

	if got != prev {
		t.Errorf("merge with no filled slots changed state: %+v", got)
	}
}

func TestMergeSlotCountNeverDecreases(t *testing.T) {
	prev := PreferenceState{Context: "science", Date: "weekend"}
	nexts := []PreferenceState{
		{},
		{Context: "arts"},
		{Time: "morning"},
		{Context: "tech", Date: "today", Time: "evening", Location: "West", Audience: "teen"},
	}

	for _, next := range nexts {
		merged := prev.Merge(next)
		if merged.FilledCount() < prev.FilledCount() {
			t.Errorf("merge decreased filled count: %d -> %d (next=%+v)",
				prev.FilledCount(), merged.FilledCount(), next)
		}
	}
}

func TestClampConfidence(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-1, 0},
		{0, 0},
		{2.5, 2.5},
		{5, 5},
		{7, 5},
	}

	for _, tt := range tests {
		if got := ClampConfidence(tt.in); got != tt.want {
			t.Errorf("ClampConfidence(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
