package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"eventieBot/internal/models/domain"
	"eventieBot/internal/models/dto"
)

// Completer is the language-understanding collaborator. The openrouter
// client implements it; tests substitute their own.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int, temperature float32) (string, error)
	CompleteStructured(ctx context.Context, prompt string, schemaName string, out any, maxTokens int, temperature float32) error
}

// historyWindow is how many recent turns are fed to the extraction
// model as conversation context.
const historyWindow = 4

// Extractor maps a free-text utterance to the five preference slots.
// Extract is the model-backed primary path; it returns an error instead
// of guessing, and the caller decides to run ExtractFallback. The
// fallback never fails.
type Extractor struct {
	logger      *slog.Logger
	model       Completer
	maxTokens   int
	temperature float32
	timeout     time.Duration
}

func NewExtractor(logger *slog.Logger, model Completer, maxTokens int, temperature float32, timeout time.Duration) *Extractor {
	return &Extractor{
		logger:      logger,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		timeout:     timeout,
	}
}

// Extract asks the model for a structured preference extraction. The
// utterance must already be validated. Any failure (timeout, transport,
// malformed response) is returned as-is for the caller to recover from.
func (x *Extractor) Extract(ctx context.Context, utterance string, history []domain.Turn) (domain.PreferenceState, error) {
	op := "assistant.Extractor.Extract()"

	ctx, cancel := context.WithTimeout(ctx, x.timeout)
	defer cancel()

	prompt := buildExtractionPrompt(utterance, history)

	var schema dto.PreferenceExtractionSchema
	err := x.model.CompleteStructured(ctx, prompt, "preferenceExtractionSchema", &schema, x.maxTokens, x.temperature)
	if err != nil {
		return domain.PreferenceState{}, fmt.Errorf("%s: %w", op, err)
	}

	return schema.ToDomain(), nil
}

func buildExtractionPrompt(utterance string, history []domain.Turn) string {
	var context strings.Builder
	start := len(history) - historyWindow
	if start < 0 {
		start = 0
	}
	for _, turn := range history[start:] {
		fmt.Fprintf(&context, "%s: %s\n", turn.Role, turn.Text)
	}

	return fmt.Sprintf(`You are Eventie, an intelligent library event assistant. Extract user preferences from their input.

Conversation context:
%s
User input: %q

Extract the preferences into the given JSON schema.

Guidelines:
- context: interests like technology, arts, family activities, workshops, reading, music, science, business, health
- date: date preferences like "this weekend", "next week", "tomorrow", specific dates
- time: time preferences like "morning", "afternoon", "evening", specific times
- location: areas like "Central", "East", "West", "North", "South", or specific neighbourhoods
- audience: audience preferences like "adult", "children", "family", "senior", "teen"
- confidence_score: 0 to 5 based on how clearly preferences are expressed
- Be flexible with synonyms and natural language
- If unsure about a field, return null for it`, context.String(), utterance)
}

// Fallback keyword vocabularies, one per slot. The first
// case-insensitive hit wins per slot.

var contextKeywords = []string{
	"technology", "tech", "digital", "computer", "coding", "programming",
	"arts", "art", "craft", "creative", "painting", "drawing",
	"family", "children", "kids", "parenting",
	"workshop", "class", "learning", "education", "skill",
	"book", "reading", "literature", "storytelling",
	"music", "dance", "performance", "theatre",
	"science", "nature", "environment", "sustainability",
	"business", "entrepreneurship", "career", "professional",
	"health", "wellness", "fitness", "yoga", "meditation",
}

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`this weekend`),
	regexp.MustCompile(`next weekend`),
	regexp.MustCompile(`weekend`),
	regexp.MustCompile(`this week`),
	regexp.MustCompile(`next week`),
	regexp.MustCompile(`week`),
	regexp.MustCompile(`today`),
	regexp.MustCompile(`tomorrow`),
	regexp.MustCompile(`next month`),
	regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})`),
	regexp.MustCompile(`(\d{1,2})\s+(january|february|march|april|may|june|july|august|september|october|november|december)`),
	regexp.MustCompile(`(january|february|march|april|may|june|july|august|september|october|november|december)\s+(\d{1,2})`),
}

var timeKeywords = []string{
	"morning", "afternoon", "evening", "night",
	"9am", "10am", "11am", "12pm", "1pm", "2pm", "3pm", "4pm", "5pm", "6pm", "7pm", "8pm",
}

var locationKeywords = []string{
	"central", "east", "west", "north", "south",
	"orchard", "bugis", "marina bay", "chinatown", "little india",
	"jurong", "woodlands", "sengkang", "punggol", "tampines",
	"bedok", "pasir ris", "changi", "ang mo kio", "bishan",
	"toa payoh", "serangoon", "hougang", "yishun", "sembawang",
}

var audienceKeywords = []string{
	"adult", "adults", "grown-up", "grownup",
	"children", "child", "kids", "kid", "young",
	"family", "families", "parent", "parents",
	"senior", "seniors", "elderly", "old",
	"teen", "teens", "teenager", "teenagers",
	"student", "students", "youth", "young adult",
}

// ExtractFallback is the deterministic keyword path used when the model
// is unavailable. Confidence is an exact count of filled slots.
func (x *Extractor) ExtractFallback(utterance string) domain.PreferenceState {
	var state domain.PreferenceState
	lower := strings.ToLower(utterance)

	for _, kw := range contextKeywords {
		if strings.Contains(lower, kw) {
			state.Context = kw
			state.ConfidenceScore++
			break
		}
	}

	for _, pattern := range datePatterns {
		if match := pattern.FindString(lower); match != "" {
			state.Date = match
			state.ConfidenceScore++
			break
		}
	}

	for _, kw := range timeKeywords {
		if strings.Contains(lower, kw) {
			state.Time = kw
			state.ConfidenceScore++
			break
		}
	}

	for _, kw := range locationKeywords {
		if strings.Contains(lower, kw) {
			state.Location = kw
			state.ConfidenceScore++
			break
		}
	}

	for _, kw := range audienceKeywords {
		if strings.Contains(lower, kw) {
			state.Audience = kw
			state.ConfidenceScore++
			break
		}
	}

	return state
}
