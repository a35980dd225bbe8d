package assistant

import (
	"fmt"
	"strings"

	"eventieBot/internal/models/domain"
)

// Deterministic message builders. Everything here must work with the
// model completely unavailable.

type slotInfo struct {
	name    string
	label   string
	hint    string
	example string
}

var slotInfos = []slotInfo{
	{"context", "Context", "what kind of events interest you (technology, arts, family activities, etc.)", `"I'm interested in technology workshops"`},
	{"date", "Date", "when you'd like to attend (this weekend, next week, specific date)", `"This weekend would be great"`},
	{"time", "Time", "what time works best (morning, afternoon, evening)", `"Morning sessions preferred"`},
	{"location", "Location", "which area (Central, East, West, North, South)", `"Something in Central would be convenient"`},
	{"audience", "Audience", "who this is for (adults, children, families, seniors)", `"For adults please"`},
}

// WelcomeMessage opens every new conversation.
func WelcomeMessage() string {
	var b strings.Builder
	b.WriteString("Hi there! I'm Eventie, your friendly library event assistant.\n\n")
	b.WriteString("I'm here to help you discover library events that match your interests. ")
	b.WriteString("To give you the best recommendations, I need to know at least 3 out of 5 preferences:\n\n")
	for i, info := range slotInfos {
		fmt.Fprintf(&b, "%d. %s: %s\n", i+1, info.label, info.hint)
	}
	b.WriteString("\nYou can tell me everything at once, like:\n")
	b.WriteString(`"I'm looking for technology workshops this weekend in Central for adults"`)
	b.WriteString("\n\nOr I'll guide you through each preference step by step. What would you like to tell me about first?")
	return b.String()
}

// BuildClarification enumerates every filled (✓) and unfilled (✗) slot,
// says how many more are needed, and shows example phrasings for the
// unfilled slots up to that count.
func BuildClarification(p domain.PreferenceState) string {
	filled := p.FilledCount()
	needed := requiredSlots - filled
	if needed < 0 {
		needed = 0
	}

	var b strings.Builder
	b.WriteString("Here's what I understand so far:\n\n")

	var missing []slotInfo
	for _, info := range slotInfos {
		if v := p.Slot(info.name); v != "" {
			fmt.Fprintf(&b, "✓ %s: %s\n", info.label, v)
		} else {
			fmt.Fprintf(&b, "✗ %s: not specified\n", info.label)
			missing = append(missing, info)
		}
	}

	fmt.Fprintf(&b, "\nProgress: %d/5 preferences collected.\n", filled)

	if needed == 0 {
		b.WriteString("\nPerfect, I have enough information to find great events for you!")
		return b.String()
	}

	fmt.Fprintf(&b, "\nI need %d more preference(s) to give you the best recommendations.\n", needed)

	if len(missing) > needed {
		missing = missing[:needed]
	}
	if len(missing) > 0 {
		b.WriteString("\nFor example:\n")
		for _, info := range missing {
			fmt.Fprintf(&b, "• %s\n", info.example)
		}
	}

	return b.String()
}

// NoMatchesMessage is the defined empty-result response.
func NoMatchesMessage() string {
	return "I'm sorry, I couldn't find any events matching your preferences. " +
		"Could you try being more specific or tell me about different interests?"
}

// FallbackRecommendation is the templated response used when the
// phrasing model is unavailable: the user is never left without a
// recommendation.
func FallbackRecommendation(p domain.PreferenceState, found int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Perfect! Based on your preferences, I found %d wonderful events for you!\n\n", found)
	b.WriteString("Here's what I understood:\n\n")
	for _, info := range slotInfos {
		if v := p.Slot(info.name); v != "" {
			fmt.Fprintf(&b, "✓ %s: %s\n", info.label, v)
		} else {
			fmt.Fprintf(&b, "✗ %s: not specified\n", info.label)
		}
	}
	b.WriteString("\nLet me share the top events that I think you'll love!")
	return b.String()
}

// FormatRecommendations renders the presented results as one chat
// message.
func FormatRecommendations(recs []domain.Recommendation) string {
	var b strings.Builder
	b.WriteString("Here are your personalized recommendations:\n\n")
	for i, rec := range recs {
		summary := rec.ConciseSummary
		if summary == "" {
			summary = rec.Description
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, rec.Title)
		fmt.Fprintf(&b, "   When: %s at %s\n", orNotSpecified(rec.Date), orNotSpecified(rec.Time))
		fmt.Fprintf(&b, "   Where: %s\n", orNotSpecified(rec.Location))
		fmt.Fprintf(&b, "   Why you'll love it: %s\n\n", orNotSpecified(summary))
	}
	b.WriteString("Want to add these to your calendar? Use the export option to download a calendar file.")
	return b.String()
}

// FormatEventDetails renders the full details of one recommendation.
func FormatEventDetails(rec domain.Recommendation, number int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Detailed information for event %d\n\n%s\n\n", number, rec.Title)
	fmt.Fprintf(&b, "Date & time: %s at %s\n", orNotSpecified(rec.Date), orNotSpecified(rec.Time))
	fmt.Fprintf(&b, "Location: %s\n", orNotSpecified(rec.Location))
	fmt.Fprintf(&b, "Category: %s\n", orNotSpecified(rec.EventCategory))
	fmt.Fprintf(&b, "Perfect for: %s\n", orNotSpecified(rec.TargetAudience))
	fmt.Fprintf(&b, "Match score: %.2f\n\n", rec.SimilarityScore)

	switch {
	case rec.LongSummary != "":
		fmt.Fprintf(&b, "Full description:\n%s\n\n", rec.LongSummary)
	case rec.Description != "":
		fmt.Fprintf(&b, "Description:\n%s\n\n", rec.Description)
	}

	if len(rec.QnAPairs) > 0 {
		b.WriteString("Frequently asked questions:\n")
		for i, qa := range rec.QnAPairs {
			fmt.Fprintf(&b, "%d. Q: %s\n   A: %s\n", i+1, qa.Question, qa.Answer)
		}
		b.WriteString("\n")
	}

	if strings.HasPrefix(rec.URL, "http") {
		fmt.Fprintf(&b, "Original event page: %s\n", rec.URL)
	}

	return b.String()
}
