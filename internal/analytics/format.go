package analytics

import (
	"fmt"
	"math"
	"time"
	"unicode/utf8"
)

// CodePreviewLength is the maximum number of characters kept in a preview.
const CodePreviewLength = 100

// Round rounds half-way values up towards positive infinity, so -2.5 becomes
// -2 rather than -3.
func Round(x float64) int {
	return int(math.Floor(x + 0.5))
}

// RoundTo rounds x to the given number of decimal places using Round.
func RoundTo(x float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return float64(Round(x*scale)) / scale
}

// CodePreview returns the first CodePreviewLength characters of code. Multi-byte
// characters are never split.
func CodePreview(code string) string {
	if utf8.RuneCountInString(code) <= CodePreviewLength {
		return code
	}
	n := 0
	for i := range code {
		if n == CodePreviewLength {
			return code[:i]
		}
		n++
	}
	return code
}

// FormatTimeAgo renders t relative to now. Each bucket's lower bound is
// inclusive: exactly 60s is "1 minutes ago". Anything a week or older is
// rendered as an absolute M/D/YYYY date.
func FormatTimeAgo(t, now time.Time) string {
	seconds := int64(math.Floor(now.Sub(t).Seconds()))

	switch {
	case seconds < 60:
		return "just now"
	case seconds < 3600:
		return fmt.Sprintf("%d minutes ago", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("%d hours ago", seconds/3600)
	case seconds < 604800:
		return fmt.Sprintf("%d days ago", seconds/86400)
	}
	return t.In(now.Location()).Format("1/2/2006")
}
