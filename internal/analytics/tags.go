package analytics

// Tag vocabulary. No other labels are ever emitted.
const (
	TagSecurity      = "security"
	TagPerformance   = "performance"
	TagReadability   = "readability"
	TagBestPractices = "best-practices"
	TagBugs          = "bugs"
)

type tagRule struct {
	tag      string
	triggers []string
}

var tagRules = []tagRule{
	{tag: TagSecurity, triggers: []string{"security"}},
	{tag: TagPerformance, triggers: []string{"performance"}},
	{tag: TagReadability, triggers: []string{"readability"}},
	{tag: TagBestPractices, triggers: []string{"best practices"}},
	{tag: TagBugs, triggers: []string{"bug", "error"}},
}

// Vocabulary returns the fixed tag vocabulary in extraction order.
func Vocabulary() []string {
	tags := make([]string, len(tagRules))
	for i, r := range tagRules {
		tags[i] = r.tag
	}
	return tags
}

// IsKnownTag reports whether tag belongs to the fixed vocabulary.
func IsKnownTag(tag string) bool {
	for _, r := range tagRules {
		if r.tag == tag {
			return true
		}
	}
	return false
}

// ExtractTags returns the vocabulary tags whose trigger phrases occur in the
// review text. Each tag is checked once, so the result never has duplicates
// and always follows vocabulary order.
func ExtractTags(reviewText string) []string {
	tags := make([]string, 0, len(tagRules))
	for _, r := range tagRules {
		if containsAny(reviewText, r.triggers) {
			tags = append(tags, r.tag)
		}
	}
	return tags
}
