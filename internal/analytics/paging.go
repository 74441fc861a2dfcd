package analytics

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100

	// AllLanguages disables the language filter.
	AllLanguages = "all"
)

// NormalizePage clamps page and pageSize into their valid ranges.
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// Offset returns the number of records skipped before page.
func Offset(page, pageSize int) int {
	return (page - 1) * pageSize
}

// TotalPages returns ceil(total / pageSize).
func TotalPages(total int64, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	size := int64(pageSize)
	return int((total + size - 1) / size)
}

// LanguageFilter returns the language to filter by, or "" when language is
// empty or the "all" sentinel.
func LanguageFilter(language string) string {
	if language == AllLanguages {
		return ""
	}
	return language
}
