package services

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/huangang/codereview-assistant/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// sqlite allows a single writer
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(&models.User{}, &models.Review{}, &models.AIUsageLog{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

var errStoreDown = errors.New("store unavailable")

// memoryStore is an in-memory ReviewStore. Setting fail makes every call
// return errStoreDown.
type memoryStore struct {
	mu      sync.Mutex
	reviews []models.Review
	fail    bool
	inserts int
}

func (m *memoryStore) matching(filter ReviewFilter) []models.Review {
	var out []models.Review
	for _, r := range m.reviews {
		if r.UserID != filter.UserID {
			continue
		}
		if filter.Language != "" && r.Language != filter.Language {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (m *memoryStore) Insert(_ context.Context, review *models.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errStoreDown
	}
	m.inserts++
	m.reviews = append(m.reviews, *review)
	return nil
}

func (m *memoryStore) FindPage(_ context.Context, filter ReviewFilter, offset, limit int) ([]models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errStoreDown
	}
	rows := m.matching(filter)
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].ID > rows[j].ID
	})
	if offset >= len(rows) {
		return []models.Review{}, nil
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end], nil
}

func (m *memoryStore) Count(_ context.Context, filter ReviewFilter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return 0, errStoreDown
	}
	return int64(len(m.matching(filter))), nil
}

func (m *memoryStore) Each(_ context.Context, filter ReviewFilter, fn func(models.Review)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errStoreDown
	}
	for _, r := range m.matching(filter) {
		fn(r)
	}
	return nil
}

func (m *memoryStore) LanguageBreakdown(_ context.Context, userID uint) ([]LanguageUsage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errStoreDown
	}
	index := map[string]int{}
	var rows []LanguageUsage
	for _, r := range m.matching(ReviewFilter{UserID: userID}) {
		i, ok := index[r.Language]
		if !ok {
			i = len(rows)
			index[r.Language] = i
			rows = append(rows, LanguageUsage{Language: r.Language})
		}
		rows[i].AvgRating = (rows[i].AvgRating*float64(rows[i].Count) + float64(r.Rating)) / float64(rows[i].Count+1)
		rows[i].Count++
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Count > rows[j].Count })
	if rows == nil {
		rows = []LanguageUsage{}
	}
	return rows, nil
}

type stubGenerator struct {
	text  string
	err   error
	calls int
}

func (g *stubGenerator) Generate(_ context.Context, code, language string) (string, error) {
	g.calls++
	return g.text, g.err
}
