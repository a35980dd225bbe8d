package feeds

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"eventieBot/internal/models/domain"

	"github.com/PuerkitoBio/goquery"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 1000
)

// LoadJSONL reads a JSON-lines feed file. Malformed lines are skipped,
// never fatal.
func LoadJSONL(ctx context.Context, path string) ([]domain.Event, error) {
	op := "feeds.LoadJSONL()"

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer file.Close()

	var events []domain.Event
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%s: %w", op, ctx.Err())
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var record map[string]any
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			continue
		}

		events = append(events, normalizeRecord(record))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return events, nil
}

// normalizeRecord maps the loose upstream field names onto the domain
// event, applying defaults for anything missing.
func normalizeRecord(record map[string]any) domain.Event {
	title := pick(record, "Untitled Event", "title", "name", "event_title")
	description := pick(record, "No description available", "description", "summary", "details")

	title = truncate(stripHTML(title), maxTitleLen)
	description = truncate(stripHTML(description), maxDescriptionLen)

	return domain.Event{
		EventID:     pick(record, "unknown", "event_id", "id"),
		Title:       title,
		Description: description,
		Date:        pick(record, "Date TBA", "date_text", "date", "start_date", "event_date"),
		Time:        pick(record, "", "time_text", "time", "start_time", "event_time"),
		Location:    pick(record, "Library location TBA", "venue", "location", "library"),
		URL:         pick(record, "https://www.nlb.gov.sg", "source_url", "url", "link"),
		Category:    strings.ToLower(pick(record, "library_event", "type", "category", "event_type")),
		Source:      "jsonl",
	}
}

// pick returns the first non-empty string value among the given keys.
func pick(record map[string]any, fallback string, keys ...string) string {
	for _, key := range keys {
		if raw, ok := record[key]; ok {
			if s, ok := raw.(string); ok {
				s = strings.TrimSpace(s)
				if s != "" {
					return s
				}
			}
		}
	}
	return fallback
}

// stripHTML removes markup that upstream feeds sometimes embed in text
// fields.
func stripHTML(s string) string {
	if !strings.ContainsAny(s, "<>") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}

// truncate cuts on rune boundaries so a multi-byte character is never
// split in half.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
