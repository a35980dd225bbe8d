package search

import (
	"strings"
	"unicode"

	"eventieBot/internal/store"
)

// Relevance weights. Each term is bounded before weighting so the
// weighted sum stays within 1.0 before the boost is applied.
const (
	wordOverlapWeight = 0.30
	exactPhraseWeight = 0.25
	titleWeight       = 0.20
	categoryWeight    = 0.15
	locationWeight    = 0.10
)

// Tokenize splits text into lower-cased alphanumeric runs.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range Tokenize(text) {
		set[tok] = struct{}{}
	}
	return set
}

// Score rates how well an indexed event matches the query. The result
// is always within [0,1]; a blank query scores 0. The category/audience
// term counts multiple hits per token on purpose; downstream ranking is
// calibrated to this arithmetic.
func Score(query string, entry store.Entry) float64 {
	queryLower := strings.ToLower(strings.TrimSpace(query))
	if queryLower == "" {
		return 0
	}

	queryWords := tokenSet(queryLower)
	totalQueryWords := len(queryWords)
	if totalQueryWords == 0 {
		return 0
	}

	surface := entry.Surface
	surfaceWords := tokenSet(surface)

	score := 0.0

	// 1. Word overlap
	matches := 0
	for w := range queryWords {
		if _, ok := surfaceWords[w]; ok {
			matches++
		}
	}
	score += float64(matches) / float64(totalQueryWords) * wordOverlapWeight

	// 2. Exact phrase match
	if strings.Contains(surface, queryLower) {
		score += exactPhraseWeight
	}

	// 3. Title relevance
	titleWords := tokenSet(entry.Event.Title)
	titleMatches := 0
	for w := range queryWords {
		if _, ok := titleWords[w]; ok {
			titleMatches++
		}
	}
	score += float64(titleMatches) / float64(totalQueryWords) * titleWeight

	// 4. Category/audience term matching
	category := strings.ToLower(entry.Event.EventCategory)
	audience := strings.ToLower(entry.Event.TargetAudience)
	catAudMatches := 0
	for w := range queryWords {
		if strings.Contains(category, w) {
			catAudMatches++
		}
		if strings.Contains(audience, w) {
			catAudMatches++
		}
	}
	score += float64(catAudMatches) / float64(totalQueryWords) * categoryWeight

	// 5. Location term matching
	location := strings.ToLower(entry.Event.Location)
	locMatches := 0
	for w := range queryWords {
		if strings.Contains(location, w) {
			locMatches++
		}
	}
	score += float64(locMatches) / float64(totalQueryWords) * locationWeight

	// 6. Preference boost, capped independently of the weighted terms.
	boost := 0.0
	for _, kw := range topicKeywords {
		if strings.Contains(queryLower, kw) && strings.Contains(surface, kw) {
			boost += topicBoost
			break
		}
	}
	for _, kw := range timeKeywords {
		if strings.Contains(queryLower, kw) && strings.Contains(surface, kw) {
			boost += timeBoost
			break
		}
	}
	for _, kw := range dateKeywords {
		if strings.Contains(queryLower, kw) && strings.Contains(surface, kw) {
			boost += dateBoost
			break
		}
	}
	for _, kw := range areaKeywords {
		if strings.Contains(queryLower, kw) && strings.Contains(surface, kw) {
			boost += areaBoost
			break
		}
	}
	if boost > maxBoost {
		boost = maxBoost
	}
	score += boost

	if score > 1.0 {
		score = 1.0
	}

	return score
}
