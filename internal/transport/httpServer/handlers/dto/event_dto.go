package dto

import (
	"eventieBot/internal/models/domain"
)

// EventResponse is the API view of one stored event.
type EventResponse struct {
	EventID        string           `json:"event_id"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	Date           string           `json:"date"`
	Time           string           `json:"time"`
	Location       string           `json:"location"`
	URL            string           `json:"url"`
	Category       string           `json:"category"`
	ConciseSummary string           `json:"concise_summary,omitempty"`
	LongSummary    string           `json:"long_summary,omitempty"`
	QnAPairs       []domain.QnAPair `json:"qna_pairs,omitempty"`
	TargetAudience string           `json:"target_audience,omitempty"`
	EventCategory  string           `json:"event_category,omitempty"`
}

// StatsResponse reports the store counters.
type StatsResponse struct {
	Total      int `json:"total"`
	Unique     int `json:"unique"`
	Duplicates int `json:"duplicates"`
}

// IngestRequest schedules one feed run.
type IngestRequest struct {
	Feed      string `json:"feed"`
	Format    string `json:"format"`
	Path      string `json:"path"`
	MaxEvents int    `json:"max_events"`
}

func MapDomainToEventResponse(e domain.Event) EventResponse {
	return EventResponse{
		EventID:        e.EventID,
		Title:          e.Title,
		Description:    e.Description,
		Date:           e.Date,
		Time:           e.Time,
		Location:       e.Location,
		URL:            e.URL,
		Category:       e.Category,
		ConciseSummary: e.ConciseSummary,
		LongSummary:    e.LongSummary,
		QnAPairs:       e.QnAPairs,
		TargetAudience: e.TargetAudience,
		EventCategory:  e.EventCategory,
	}
}

func MapDomainToEventResponseList(events []domain.Event) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, MapDomainToEventResponse(e))
	}
	return out
}

func MapStatsToResponse(s domain.StoreStats) StatsResponse {
	return StatsResponse{
		Total:      s.Total,
		Unique:     s.Unique,
		Duplicates: s.Duplicates,
	}
}
