package export

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"eventieBot/internal/models/domain"

	"github.com/google/uuid"
)

var dateLayouts = []string{
	"2 January 2006",
	"02 January 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"2006-01-02",
	"02/01/2006",
}

var datePattern = regexp.MustCompile(`\d{1,2}\s+\w+\s+\d{4}|\d{4}-\d{2}-\d{2}|\d{2}/\d{2}/\d{4}`)

// ParseEventDate parses the free-text event date. Unparseable dates
// fall back to today so the export never fails on one bad field.
func ParseEventDate(text string) time.Time {
	candidate := strings.TrimSpace(text)
	if match := datePattern.FindString(candidate); match != "" {
		candidate = match
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, candidate); err == nil {
			return t
		}
	}
	return time.Now()
}

// GenerateICS renders the recommendations as an iCalendar file.
func GenerateICS(recommendations []domain.Recommendation) string {
	var b strings.Builder

	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString("PRODID:-//Eventie//Library Events//EN\r\n")
	b.WriteString("CALSCALE:GREGORIAN\r\n")

	for _, rec := range recommendations {
		start := ParseEventDate(rec.Event.Date)

		b.WriteString("BEGIN:VEVENT\r\n")
		fmt.Fprintf(&b, "UID:%s@eventie\r\n", uuid.New().String())
		fmt.Fprintf(&b, "DTSTAMP:%s\r\n", time.Now().UTC().Format("20060102T150405Z"))
		fmt.Fprintf(&b, "DTSTART;VALUE=DATE:%s\r\n", start.Format("20060102"))
		fmt.Fprintf(&b, "SUMMARY:%s\r\n", escapeICS(rec.Event.Title))
		fmt.Fprintf(&b, "LOCATION:%s\r\n", escapeICS(rec.Event.Location))

		description := rec.Event.ConciseSummary
		if description == "" {
			description = rec.Event.Description
		}
		if rec.Event.Time != "" {
			description = fmt.Sprintf("%s (Time: %s)", description, rec.Event.Time)
		}
		fmt.Fprintf(&b, "DESCRIPTION:%s\r\n", escapeICS(description))

		if strings.HasPrefix(rec.Event.URL, "http") {
			fmt.Fprintf(&b, "URL:%s\r\n", rec.Event.URL)
		}
		b.WriteString("END:VEVENT\r\n")
	}

	b.WriteString("END:VCALENDAR\r\n")
	return b.String()
}

// escapeICS escapes the characters RFC 5545 reserves in text values.
func escapeICS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
