package services

import (
	"strings"
	"testing"
)

func TestLanguageHint(t *testing.T) {
	tests := []struct {
		language string
		contains string
	}{
		{"go", "Go focus"},
		{"Golang", "Go focus"},
		{" Python ", "Python focus"},
		{"js", "JavaScript focus"},
		{"TSX", "TypeScript focus"},
		{"c++", "C++ focus"},
		{"C#", "Java focus"},
	}

	for _, tt := range tests {
		t.Run(tt.language, func(t *testing.T) {
			hint := LanguageHint(tt.language)
			if !strings.Contains(hint, tt.contains) {
				t.Errorf("LanguageHint(%q) = %q, expected it to contain %q", tt.language, hint, tt.contains)
			}
		})
	}
}

func TestLanguageHint_Unknown(t *testing.T) {
	for _, lang := range []string{"", "cobol", "brainfuck"} {
		if hint := LanguageHint(lang); hint != "" {
			t.Errorf("LanguageHint(%q) = %q, expected empty", lang, hint)
		}
	}
}
