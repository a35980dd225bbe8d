package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"eventieBot/internal/models/domain"
)

// GenerateCSV renders the recommendations as a CSV table.
func GenerateCSV(recommendations []domain.Recommendation) (string, error) {
	op := "export.GenerateCSV()"

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Title", "Date", "Time", "Location", "Category", "Match Score"}
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	for _, rec := range recommendations {
		row := []string{
			rec.Event.Title,
			rec.Event.Date,
			rec.Event.Time,
			rec.Event.Location,
			rec.Event.EventCategory,
			fmt.Sprintf("%.2f", rec.SimilarityScore),
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return buf.String(), nil
}
