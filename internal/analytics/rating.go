package analytics

import "strings"

const (
	// MinRating and MaxRating bound every classified rating.
	MinRating = 1
	MaxRating = 5

	baselineRating = 4
)

// ratingRule maps a set of trigger phrases to a rating. Rules are evaluated
// top-to-bottom and the first rule with a matching phrase wins.
type ratingRule struct {
	phrases []string
	rating  int
}

// Order is load-bearing: praise outranks critical findings, which outrank
// general complaints.
var ratingRules = []ratingRule{
	{phrases: []string{"excellent", "perfect", "great job"}, rating: 5},
	{phrases: []string{"critical", "major issues", "security risk"}, rating: 2},
	{phrases: []string{"poor", "bad", "issues"}, rating: 3},
}

// ClassifyRating maps AI review text to a rating in [1,5] using a
// case-sensitive keyword scan. Text matching no rule gets the baseline of 4.
func ClassifyRating(reviewText string) int {
	for _, rule := range ratingRules {
		if containsAny(reviewText, rule.phrases) {
			return rule.rating
		}
	}
	return baselineRating
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
