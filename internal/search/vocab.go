package search

// Fixed keyword vocabularies for the score boost. One bonus per
// vocabulary: scanning stops at the first keyword found in both the
// query and the event surface.

var topicKeywords = []string{
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

var timeKeywords = []string{
	"morning", "afternoon", "evening", "night", "am", "pm",
}

var dateKeywords = []string{
	"weekend", "week", "today", "tomorrow", "month",
}

var areaKeywords = []string{
	"central", "east", "west", "north", "south", "orchard", "bugis",
	"jurong", "woodlands", "sengkang", "punggol", "tampines",
}

const (
	topicBoost = 0.10
	timeBoost  = 0.05
	dateBoost  = 0.05
	areaBoost  = 0.05
	maxBoost   = 0.30
)
