package services

import "strings"

// languageHints holds extra review focus points per language key.
var languageHints = map[string]string{
	"go": `Go focus:
- unchecked errors and shadowed err variables
- missing defer/Close on resources
- goroutine leaks, data races, unbounded channels
- context.Context propagation`,

	"python": `Python focus:
- bare except clauses and swallowed exceptions
- mutable default arguments
- resources opened without a with block
- string formatting that reaches SQL or shell commands`,

	"javascript": `JavaScript focus:
- unhandled promise rejections and missing await
- XSS through innerHTML or unescaped templates
- leaked event listeners and timers
- loose equality and null/undefined handling`,

	"typescript": `TypeScript focus:
- uses of any and unchecked casts
- unhandled promise rejections and missing await
- leaked event listeners and timers
- non-null assertions hiding real nulls`,

	"java": `Java focus:
- resources not closed with try-with-resources
- null handling and Optional misuse
- shared mutable state across threads
- SQL built by string concatenation`,

	"rust": `Rust focus:
- unwrap/expect on recoverable errors
- unsafe blocks that are not justified
- needless clones and borrow workarounds`,

	"ruby": `Ruby focus:
- eval/send on user input
- N+1 queries in ActiveRecord
- rescue clauses that are too broad`,

	"php": `PHP focus:
- SQL injection and missing prepared statements
- unescaped output (XSS)
- loose comparisons with ==`,

	"c": `C focus:
- buffer overflows and unchecked bounds
- leaks and double frees
- integer overflow and undefined behavior`,

	"cpp": `C++ focus:
- raw owning pointers where RAII fits
- out-of-bounds access
- exception safety and thread safety`,
}

// languageAliases maps common labels onto languageHints keys.
var languageAliases = map[string]string{
	"js":      "javascript",
	"node":    "javascript",
	"jsx":     "javascript",
	"ts":      "typescript",
	"tsx":     "typescript",
	"golang":  "go",
	"py":      "python",
	"python3": "python",
	"rb":      "ruby",
	"rs":      "rust",
	"c++":     "cpp",
	"cc":      "cpp",
	"cxx":     "cpp",
	"csharp":  "java",
	"c#":      "java",
	"kt":      "java",
	"kotlin":  "java",
}

// languageKey normalizes a user-supplied language label for hint lookup.
// The stored record keeps the label exactly as submitted.
func languageKey(language string) string {
	key := strings.ToLower(strings.TrimSpace(language))
	if alias, ok := languageAliases[key]; ok {
		return alias
	}
	return key
}

// LanguageHint returns the extra review guidance for language, or "" when
// there is none.
func LanguageHint(language string) string {
	return languageHints[languageKey(language)]
}
