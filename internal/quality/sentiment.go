package quality

import "strings"

var positiveWords = []string{"good", "great", "love", "easy", "excellent", "amazing"}

var negativeWords = []string{"bad", "crash", "slow", "bug", "hate", "terrible", "broken"}

// CheckSentimentConsistency reports whether a rating agrees with the polarity
// of the accompanying text. High ratings with clearly negative text, and low
// ratings with clearly positive text, are inconsistent. Ratings of 3 and ties
// are always consistent.
func CheckSentimentConsistency(rating float64, text string) bool {
	lower := strings.ToLower(text)
	positive := countHits(lower, positiveWords)
	negative := countHits(lower, negativeWords)

	if rating >= 4 && negative > positive+1 {
		return false
	}
	if rating <= 2 && positive > negative+1 {
		return false
	}
	return true
}

func countHits(lower string, words []string) int {
	hits := 0
	for _, word := range words {
		if strings.Contains(lower, word) {
			hits++
		}
	}
	return hits
}
