package feeds

import (
	"context"

	"eventieBot/internal/models/domain"
)

// LoadFunc reads one feed file and returns the normalized events.
type LoadFunc func(ctx context.Context, path string) ([]domain.Event, error)

// SampleEvents returns the built-in demo feed used when no external
// feed is configured.
func SampleEvents() []domain.Event {
	return []domain.Event{
		{
			EventID:     "sample-001",
			Title:       "Digital Literacy Workshop",
			Description: "Learn essential computer skills including email, internet browsing and online safety. Perfect for beginners.",
			Date:        "15 September 2026",
			Time:        "10:00 AM",
			Location:    "Central Public Library",
			URL:         "https://www.nlb.gov.sg/events/sample-001",
			Category:    "workshop",
			Source:      "sample",
		},
		{
			EventID:     "sample-002",
			Title:       "Toddler Storytime: Animal Adventures",
			Description: "Interactive storytelling session for toddlers aged 2 to 4 with songs, puppets and picture books about animals.",
			Date:        "16 September 2026",
			Time:        "4:00 PM",
			Location:    "Jurong Regional Library",
			URL:         "https://www.nlb.gov.sg/events/sample-002",
			Category:    "storytelling",
			Source:      "sample",
		},
		{
			EventID:     "sample-003",
			Title:       "Author Talk: Writing Historical Fiction",
			Description: "An evening conversation with a local author on research, craft and publishing historical fiction set in Southeast Asia.",
			Date:        "20 September 2026",
			Time:        "7:00 PM",
			Location:    "Tampines Regional Library",
			URL:         "https://www.nlb.gov.sg/events/sample-003",
			Category:    "talk",
			Source:      "sample",
		},
	}
}
