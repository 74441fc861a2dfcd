package analytics

// WeeklyImprovementPercent compares review counts week over week. With no
// reviews last week it reports 100 when there are reviews this week and 0
// otherwise.
func WeeklyImprovementPercent(thisWeek, lastWeek int) int {
	if lastWeek > 0 {
		return Round(float64(thisWeek-lastWeek) / float64(lastWeek) * 100)
	}
	if thisWeek > 0 {
		return 100
	}
	return 0
}

// RatingImprovementPercent compares mean ratings week over week. Unlike the
// review-count comparison, an empty previous week falls back to 5, not 100.
// TODO: confirm with product whether the 5 fallback should match the 100 used by WeeklyImprovementPercent.
func RatingImprovementPercent(currentWeekRating, lastWeekRating float64) int {
	if lastWeekRating > 0 {
		return Round((currentWeekRating - lastWeekRating) / lastWeekRating * 100)
	}
	if currentWeekRating > 0 {
		return 5
	}
	return 0
}

// QualityScorePercent maps a 1-5 mean rating onto 0-100.
func QualityScorePercent(averageRating float64) int {
	return Round(averageRating * 20)
}
