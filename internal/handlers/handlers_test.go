package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/huangang/codereview-assistant/internal/config"
	"github.com/huangang/codereview-assistant/internal/middleware"
	"github.com/huangang/codereview-assistant/internal/models"
	"github.com/huangang/codereview-assistant/internal/services"
	"github.com/huangang/codereview-assistant/internal/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("handler-test-secret")
}

type stubGenerator struct {
	text string
	err  error
}

func (g *stubGenerator) Generate(context.Context, string, string) (string, error) {
	return g.text, g.err
}

// brokenStore fails every call.
type brokenStore struct{}

var errBroken = errors.New("disk on fire")

func (brokenStore) Insert(context.Context, *models.Review) error { return errBroken }
func (brokenStore) FindPage(context.Context, services.ReviewFilter, int, int) ([]models.Review, error) {
	return nil, errBroken
}
func (brokenStore) Count(context.Context, services.ReviewFilter) (int64, error) { return 0, errBroken }
func (brokenStore) Each(context.Context, services.ReviewFilter, func(models.Review)) error {
	return errBroken
}
func (brokenStore) LanguageBreakdown(context.Context, uint) ([]services.LanguageUsage, error) {
	return nil, errBroken
}

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
	gen    *stubGenerator
	auth   *services.AuthService
}

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
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := db.AutoMigrate(&models.User{}, &models.Review{}, &models.AIUsageLog{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestEnv(t *testing.T, store services.ReviewStore) *testEnv {
	t.Helper()
	db := newTestDB(t)
	if store == nil {
		store = services.NewGormReviewStore(db)
	}
	gen := &stubGenerator{text: "Found a bug and some readability issues."}

	authService := services.NewAuthService(db, &config.JWTConfig{ExpireHour: 1})
	dashboardService := services.NewDashboardService(store)
	reviewHandler := NewReviewHandler(services.NewReviewService(store, gen))
	dashboardHandler := NewDashboardHandler(dashboardService, authService)
	authHandler := NewAuthHandler(authService, dashboardService)

	r := gin.New()
	users := r.Group("/api/users")
	users.POST("/register", authHandler.Register)
	users.POST("/login", authHandler.Login)

	protected := r.Group("/api", middleware.AuthRequired())
	protected.POST("/users/logout", authHandler.Logout)
	protected.GET("/users/profile", authHandler.GetProfile)
	protected.POST("/ai/get-review", reviewHandler.GetReview)
	protected.GET("/dashboard/stats", dashboardHandler.GetStats)
	protected.GET("/dashboard/history", dashboardHandler.GetHistory)
	protected.GET("/dashboard/profile", dashboardHandler.GetProfile)

	return &testEnv{db: db, router: r, gen: gen, auth: authService}
}

// signup registers a user and returns a bearer token for it.
func (e *testEnv) signup(t *testing.T, username string) string {
	t.Helper()
	result, err := e.auth.Register(&services.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	return result.Token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var decoded map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("decode %s %s: %v (body %q)", method, path, err, w.Body.String())
	}
	return w, decoded
}

func dataOf(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := body["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("body has no data object: %v", body)
	}
	return data
}
