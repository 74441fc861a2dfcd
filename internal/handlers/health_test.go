package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/huangang/codereview-assistant/internal/config"
	"github.com/huangang/codereview-assistant/internal/models"
	"github.com/huangang/codereview-assistant/internal/services"
)

func newHealthRouter(h *HealthHandler) *gin.Engine {
	r := gin.New()
	health := r.Group("/health")
	health.GET("", h.Check)
	health.GET("/detailed", h.Detailed)
	health.GET("/database", h.Database)
	health.GET("/ai-service", h.AIService)
	health.GET("/metrics", h.Metrics)
	health.GET("/ready", h.Ready)
	health.GET("/live", h.Live)
	return r
}

func getJSON(t *testing.T, r *gin.Engine, path string) (int, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", path, nil)
	r.ServeHTTP(w, req)
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return w.Code, body
}

func TestHealthHandler_Healthy(t *testing.T) {
	db := newTestDB(t)
	ai := services.NewAIService(&config.AIConfig{Providers: []config.LLMProviderConfig{
		{Name: "primary", Provider: "openai", APIKey: "k"},
	}}, nil)
	r := newHealthRouter(NewHealthHandler(db, ai, services.NewAIUsageService(db), "test"))

	tests := []struct {
		path   string
		status int
		field  string
		value  string
	}{
		{"/health", http.StatusOK, "status", "OK"},
		{"/health/detailed", http.StatusOK, "status", "OK"},
		{"/health/database", http.StatusOK, "status", "connected"},
		{"/health/ready", http.StatusOK, "status", "ready"},
		{"/health/live", http.StatusOK, "status", "alive"},
		{"/health/ai-service", http.StatusOK, "status", "configured"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			code, body := getJSON(t, r, tt.path)
			if code != tt.status {
				t.Errorf("status = %d, expected %d", code, tt.status)
			}
			if body[tt.field] != tt.value {
				t.Errorf("%s = %v, expected %q", tt.field, body[tt.field], tt.value)
			}
		})
	}

	_, body := getJSON(t, r, "/health")
	if body["environment"] != "test" || body["version"] != ServiceVersion {
		t.Errorf("health body = %v", body)
	}
}

func TestHealthHandler_DatabaseDown(t *testing.T) {
	db := newTestDB(t)
	sqlDB, _ := db.DB()
	sqlDB.Close()

	r := newHealthRouter(NewHealthHandler(db, services.NewAIService(&config.AIConfig{}, nil), nil, "test"))

	code, body := getJSON(t, r, "/health/ready")
	if code != http.StatusServiceUnavailable || body["success"] != false || body["error"] != "Service not ready" {
		t.Errorf("ready = %d %v", code, body)
	}
	if data, _ := body["data"].(map[string]interface{}); data["status"] != "not_ready" {
		t.Errorf("ready data = %v", body["data"])
	}
	if code, _ := getJSON(t, r, "/health/database"); code != http.StatusServiceUnavailable {
		t.Errorf("database status = %d, expected 503", code)
	}
	if code, body := getJSON(t, r, "/health/detailed"); code != http.StatusOK || body["status"] != "ERROR" {
		t.Errorf("detailed = %d %v", code, body["status"])
	}
	if code, _ := getJSON(t, r, "/health/live"); code != http.StatusOK {
		t.Errorf("live status = %d, expected 200", code)
	}
	if code, _ := getJSON(t, r, "/health/metrics"); code != http.StatusOK {
		t.Errorf("metrics status = %d, expected 200", code)
	}
}

func TestHealthHandler_NoAIProvider(t *testing.T) {
	db := newTestDB(t)
	r := newHealthRouter(NewHealthHandler(db, services.NewAIService(&config.AIConfig{Providers: []config.LLMProviderConfig{
		{Name: "gemini", Provider: "gemini"},
	}}, nil), nil, "test"))

	_, body := getJSON(t, r, "/health/detailed")
	if body["status"] != "DEGRADED" {
		t.Errorf("status = %v, expected DEGRADED", body["status"])
	}
	checks := body["checks"].(map[string]interface{})
	ai := checks["ai_service"].(map[string]interface{})
	if ai["status"] != "not_configured" {
		t.Errorf("ai_service = %v", ai)
	}

	code, body := getJSON(t, r, "/health/ai-service")
	if code != http.StatusServiceUnavailable || body["status"] != "not_configured" {
		t.Errorf("ai-service = %d %v", code, body)
	}
}

func TestHealthHandler_AIServiceUsage(t *testing.T) {
	db := newTestDB(t)
	usage := services.NewAIUsageService(db)
	usage.Record(&models.AIUsageLog{Provider: "openai", Model: "gpt-4o", LatencyMs: 120, Success: true})
	usage.Record(&models.AIUsageLog{Provider: "openai", Model: "gpt-4o", LatencyMs: 80, ErrorMessage: "timeout"})
	usage.Wait()

	ai := services.NewAIService(&config.AIConfig{Providers: []config.LLMProviderConfig{
		{Name: "primary", Provider: "openai", APIKey: "k"},
		{Name: "local", Provider: "ollama"},
		{Name: "backup", Provider: "anthropic"},
	}}, usage)
	r := newHealthRouter(NewHealthHandler(db, ai, usage, "test"))

	code, body := getJSON(t, r, "/health/ai-service")
	if code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", code)
	}
	providers, _ := body["providers"].([]interface{})
	if len(providers) != 2 || providers[0] != "primary" || providers[1] != "local" {
		t.Errorf("providers = %v, expected [primary local]", body["providers"])
	}
	if body["success_rate"] != 50.0 {
		t.Errorf("success_rate = %v, expected 50", body["success_rate"])
	}
}

func TestHealthHandler_Metrics(t *testing.T) {
	db := newTestDB(t)
	r := newHealthRouter(NewHealthHandler(db, services.NewAIService(&config.AIConfig{}, nil), nil, "staging"))

	code, body := getJSON(t, r, "/health/metrics")
	if code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", code)
	}

	process := body["process"].(map[string]interface{})
	if process["goroutines"].(float64) < 1 {
		t.Errorf("goroutines = %v", process["goroutines"])
	}
	memory := process["memory"].(map[string]interface{})
	if memory["sys"].(float64) <= 0 {
		t.Errorf("memory.sys = %v", memory["sys"])
	}

	system := body["system"].(map[string]interface{})
	if system["env"] != "staging" || system["go"] == "" {
		t.Errorf("system = %v", system)
	}

	database := body["database"].(map[string]interface{})
	if database["status"] != "available" || database["driver"] != "sqlite" {
		t.Errorf("database = %v", database)
	}
}
