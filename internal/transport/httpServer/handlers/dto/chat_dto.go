package dto

import (
	"eventieBot/internal/assistant"
	"eventieBot/internal/models/domain"
)

// ChatRequest is one user turn sent to the assistant.
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// PreferenceResponse reports the cumulative preference slots.
type PreferenceResponse struct {
	Context         string  `json:"context"`
	Date            string  `json:"date"`
	Time            string  `json:"time"`
	Location        string  `json:"location"`
	Audience        string  `json:"audience"`
	ConfidenceScore float64 `json:"confidence_score"`
	FilledSlots     int     `json:"filled_slots"`
}

// RecommendationResponse is one ranked event in an API response.
type RecommendationResponse struct {
	Event           EventResponse `json:"event"`
	SimilarityScore float64       `json:"similarity_score"`
}

// ChatResponse is the assistant's reply to one turn.
type ChatResponse struct {
	Reply           string                   `json:"reply"`
	State           string                   `json:"state"`
	Sufficient      bool                     `json:"sufficient"`
	Preferences     PreferenceResponse       `json:"preferences"`
	Recommendations []RecommendationResponse `json:"recommendations"`
}

// ResetRequest clears one conversation.
type ResetRequest struct {
	SessionID string `json:"session_id"`
}

func MapPreferencesToResponse(p domain.PreferenceState) PreferenceResponse {
	return PreferenceResponse{
		Context:         p.Context,
		Date:            p.Date,
		Time:            p.Time,
		Location:        p.Location,
		Audience:        p.Audience,
		ConfidenceScore: p.ConfidenceScore,
		FilledSlots:     p.FilledCount(),
	}
}

func MapTurnResultToResponse(result assistant.TurnResult) ChatResponse {
	return ChatResponse{
		Reply:           result.Reply,
		State:           string(result.State),
		Sufficient:      result.Sufficient,
		Preferences:     MapPreferencesToResponse(result.Preferences),
		Recommendations: MapRecommendationsToResponse(result.Recommendations),
	}
}

func MapRecommendationsToResponse(recs []domain.Recommendation) []RecommendationResponse {
	out := make([]RecommendationResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, RecommendationResponse{
			Event:           MapDomainToEventResponse(rec.Event),
			SimilarityScore: rec.SimilarityScore,
		})
	}
	return out
}
