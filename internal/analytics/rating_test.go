package analytics

import "testing"

func TestClassifyRating(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{"excellent", "Excellent structure overall, excellent naming.", 5},
		{"perfect", "This is perfect.", 5},
		{"great job", "great job on the tests", 5},
		{"critical", "There is a critical flaw here.", 2},
		{"major issues", "The code has major issues with state.", 2},
		{"security risk", "Storing passwords in plain text is a security risk.", 2},
		{"poor", "Variable naming is poor.", 3},
		{"bad", "This is a bad pattern.", 3},
		{"issues", "A few issues remain.", 3},
		{"baseline", "Looks reasonable, consider adding comments.", 4},
		{"case sensitive praise", "Excellent", 4},
		{"case sensitive critical", "Critical section handled well", 4},
		{"scenario critical security", "This code has critical security risk and bugs.", 2},
		{"major issues outranks issues", "major issues", 2},
		{"capitalised praise is not matched", "Excellent work, follows best practices.", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyRating(tt.text); got != tt.expected {
				t.Errorf("ClassifyRating(%q) = %d, expected %d", tt.text, got, tt.expected)
			}
		})
	}
}

func TestClassifyRating_PraiseOverridesNegatives(t *testing.T) {
	texts := []string{
		"excellent work but one critical bug",
		"critical path is excellent",
		"perfect apart from a security risk",
		"great job, though naming is poor and has issues",
	}
	for _, text := range texts {
		if got := ClassifyRating(text); got != 5 {
			t.Errorf("ClassifyRating(%q) = %d, expected 5", text, got)
		}
	}
}

func TestClassifyRating_AlwaysInRange(t *testing.T) {
	texts := []string{"", "x", "bad critical excellent", "issues", "érror"}
	for _, text := range texts {
		got := ClassifyRating(text)
		if got < MinRating || got > MaxRating {
			t.Errorf("ClassifyRating(%q) = %d, out of range", text, got)
		}
	}
}
