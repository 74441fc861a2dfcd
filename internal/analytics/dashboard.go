package analytics

import (
	"sort"
	"time"

	"github.com/huangang/codereview-assistant/internal/models"
)

const (
	TopLanguagesLimit   = 6
	RecentActivityLimit = 5

	activityAction = "Code Review"
	activityStatus = "Completed"
)

type ReviewCounts struct {
	Total       int `json:"total"`
	ThisWeek    int `json:"this_week"`
	LastWeek    int `json:"last_week"`
	Improvement int `json:"improvement"`
}

type QualityStats struct {
	Score             int     `json:"score"`
	Improvement       int     `json:"improvement"`
	AverageRating     float64 `json:"average_rating"`
	CurrentWeekRating float64 `json:"current_week_rating"`
	LastWeekRating    float64 `json:"last_week_rating"`
}

type LanguageCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type LanguageStats struct {
	Count int             `json:"count"`
	List  []LanguageCount `json:"list"`
}

type Activity struct {
	ID          string    `json:"id"`
	Action      string    `json:"action"`
	Language    string    `json:"language"`
	Time        string    `json:"time"`
	Status      string    `json:"status"`
	Rating      int       `json:"rating"`
	Duration    int       `json:"duration"`
	CreatedAt   time.Time `json:"created_at"`
	CodePreview string    `json:"code_preview"`
}

// DashboardStats is the composite usage summary for one user.
type DashboardStats struct {
	Reviews        ReviewCounts  `json:"reviews"`
	Quality        QualityStats  `json:"quality"`
	Languages      LanguageStats `json:"languages"`
	RecentActivity []Activity    `json:"recent_activity"`
}

// ratingMean accumulates a running mean without storing the samples.
type ratingMean struct {
	sum   int
	count int
}

func (m *ratingMean) add(rating int) {
	m.sum += rating
	m.count++
}

func (m ratingMean) value() float64 {
	if m.count == 0 {
		return 0
	}
	return float64(m.sum) / float64(m.count)
}

// Aggregator folds review records into DashboardStats in a single pass. The
// records may arrive in any createdAt order; only the five most recent are
// retained for the activity feed.
type Aggregator struct {
	now      time.Time
	current  TimeWindow
	previous TimeWindow

	total     int
	overall   ratingMean
	thisWeek  ratingMean
	lastWeek  ratingMean
	langCount map[string]int
	langOrder []string
	recent    []models.Review
}

// NewAggregator returns an Aggregator whose week windows are computed from now.
func NewAggregator(now time.Time) *Aggregator {
	return &Aggregator{
		now:       now,
		current:   CurrentWeek(now),
		previous:  PreviousWeek(now),
		langCount: make(map[string]int),
		recent:    make([]models.Review, 0, RecentActivityLimit+1),
	}
}

// Add folds one record into the running totals.
func (a *Aggregator) Add(r models.Review) {
	a.total++
	a.overall.add(r.Rating)

	switch {
	case a.current.Contains(r.CreatedAt):
		a.thisWeek.add(r.Rating)
	case a.previous.Contains(r.CreatedAt):
		a.lastWeek.add(r.Rating)
	}

	if _, seen := a.langCount[r.Language]; !seen {
		a.langOrder = append(a.langOrder, r.Language)
	}
	a.langCount[r.Language]++

	a.addRecent(r)
}

// addRecent keeps a.recent sorted newest first and at most RecentActivityLimit
// long. Equal timestamps are ordered by descending id so the result does not
// depend on iteration order.
func (a *Aggregator) addRecent(r models.Review) {
	i := sort.Search(len(a.recent), func(i int) bool {
		return newerThan(r, a.recent[i])
	})
	if i >= RecentActivityLimit {
		return
	}
	a.recent = append(a.recent, models.Review{})
	copy(a.recent[i+1:], a.recent[i:])
	a.recent[i] = r
	if len(a.recent) > RecentActivityLimit {
		a.recent = a.recent[:RecentActivityLimit]
	}
}

func newerThan(a, b models.Review) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

// Stats returns the aggregated statistics for everything added so far.
func (a *Aggregator) Stats() DashboardStats {
	average := a.overall.value()
	currentRating := a.thisWeek.value()
	lastRating := a.lastWeek.value()

	return DashboardStats{
		Reviews: ReviewCounts{
			Total:       a.total,
			ThisWeek:    a.thisWeek.count,
			LastWeek:    a.lastWeek.count,
			Improvement: WeeklyImprovementPercent(a.thisWeek.count, a.lastWeek.count),
		},
		Quality: QualityStats{
			Score:             QualityScorePercent(average),
			Improvement:       RatingImprovementPercent(currentRating, lastRating),
			AverageRating:     RoundTo(average, 1),
			CurrentWeekRating: RoundTo(currentRating, 1),
			LastWeekRating:    RoundTo(lastRating, 1),
		},
		Languages:      a.topLanguages(),
		RecentActivity: a.activity(),
	}
}

func (a *Aggregator) topLanguages() LanguageStats {
	order := make([]string, len(a.langOrder))
	copy(order, a.langOrder)
	sort.SliceStable(order, func(i, j int) bool {
		return a.langCount[order[i]] > a.langCount[order[j]]
	})
	if len(order) > TopLanguagesLimit {
		order = order[:TopLanguagesLimit]
	}

	list := make([]LanguageCount, len(order))
	for i, name := range order {
		list[i] = LanguageCount{Name: name, Count: a.langCount[name]}
	}
	return LanguageStats{Count: len(list), List: list}
}

func (a *Aggregator) activity() []Activity {
	items := make([]Activity, len(a.recent))
	for i, r := range a.recent {
		items[i] = Activity{
			ID:          r.ID,
			Action:      activityAction,
			Language:    r.Language,
			Time:        FormatTimeAgo(r.CreatedAt, a.now),
			Status:      activityStatus,
			Rating:      r.Rating,
			Duration:    r.ReviewDurationSeconds,
			CreatedAt:   r.CreatedAt,
			CodePreview: CodePreview(r.Code),
		}
	}
	return items
}

// Aggregate computes DashboardStats over records as of now.
func Aggregate(records []models.Review, now time.Time) DashboardStats {
	agg := NewAggregator(now)
	for _, r := range records {
		agg.Add(r)
	}
	return agg.Stats()
}
