// Package sentiment derives a prioritization score from an outage report's
// free-text description. It is a weighted substring lexicon, not NLP: each
// matched keyword adds its category weight, and the sum is clamped.
package sentiment

import "strings"

const (
	// MinScore and MaxScore bound every returned score.
	MinScore = -10
	MaxScore = 10
)

type category struct {
	weight   int
	keywords []string
}

// Keyword lists are product-specific and may grow without changing the
// scoring contract.
var categories = []category{
	{ // recurring-outage complaints
		weight: -2,
		keywords: []string{
			"again", "always", "every day", "everyday", "every night",
			"third time", "keeps going out", "palagi", "na naman",
		},
	},
	{ // livelihood / remote-work impact
		weight: -2,
		keywords: []string{
			"work from home", "wfh", "online class", "business", "livelihood",
			"income", "deadline", "store", "freezer",
		},
	},
	{ // property damage
		weight: -3,
		keywords: []string{
			"fire", "sparks", "exploded", "explosion", "burned", "burnt",
			"damaged appliance", "broken transformer", "fell on",
		},
	},
	{ // gratitude / relief
		weight: 1,
		keywords: []string{
			"thank you", "thanks", "salamat", "appreciate", "restored quickly",
		},
	},
}

// Score maps a description to an integer in [MinScore, MaxScore]. Matching
// is case-insensitive; each keyword counts at most once.
func Score(description string) int {
	text := strings.ToLower(description)
	score := 0
	for _, cat := range categories {
		for _, kw := range cat.keywords {
			if strings.Contains(text, kw) {
				score += cat.weight
			}
		}
	}
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
