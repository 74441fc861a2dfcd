package handlers

import (
	"context"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/huangang/codereview-assistant/internal/services"
	"github.com/huangang/codereview-assistant/pkg/response"
	"gorm.io/gorm"
)

const (
	ServiceName    = "Code Review Assistant API"
	ServiceVersion = "1.0.0"

	pingTimeout = 2 * time.Second
)

// HealthHandler serves liveness, readiness and diagnostic endpoints.
type HealthHandler struct {
	db          *gorm.DB
	aiService   *services.AIService
	usage       *services.AIUsageService
	environment string
	startedAt   time.Time
}

func NewHealthHandler(db *gorm.DB, aiService *services.AIService, usage *services.AIUsageService, environment string) *HealthHandler {
	return &HealthHandler{
		db:          db,
		aiService:   aiService,
		usage:       usage,
		environment: environment,
		startedAt:   time.Now(),
	}
}

// pingDB reports whether the database answered and how long it took.
func (h *HealthHandler) pingDB(ctx context.Context) (bool, time.Duration, error) {
	start := time.Now()
	if h.db == nil {
		return false, 0, gorm.ErrInvalidDB
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return false, time.Since(start), err
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return false, time.Since(start), err
	}
	return true, time.Since(start), nil
}

// Check is the basic health probe
// GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "OK",
		"service":     ServiceName,
		"timestamp":   time.Now().UTC(),
		"uptime":      time.Since(h.startedAt).Seconds(),
		"environment": h.environment,
		"version":     ServiceVersion,
	})
}

// Detailed reports on every subsystem
// GET /health/detailed
func (h *HealthHandler) Detailed(c *gin.Context) {
	status := "OK"

	dbCheck := gin.H{"status": "connected"}
	ok, latency, err := h.pingDB(c.Request.Context())
	dbCheck["response_time_ms"] = latency.Milliseconds()
	if !ok {
		dbCheck["status"] = "disconnected"
		dbCheck["error"] = err.Error()
		status = "ERROR"
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	memCheck := gin.H{
		"status":     "OK",
		"alloc_mb":   mem.Alloc / 1024 / 1024,
		"sys_mb":     mem.Sys / 1024 / 1024,
		"num_gc":     mem.NumGC,
		"goroutines": runtime.NumGoroutine(),
	}

	aiCheck := h.aiCheck()
	if aiCheck["status"] == "not_configured" && status == "OK" {
		status = "DEGRADED"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC(),
		"service":   ServiceName,
		"version":   ServiceVersion,
		"checks": gin.H{
			"database":   dbCheck,
			"memory":     memCheck,
			"ai_service": aiCheck,
			"environment": gin.H{
				"status":     "OK",
				"go":         runtime.Version(),
				"platform":   runtime.GOOS + "/" + runtime.GOARCH,
				"env":        h.environment,
				"uptime_sec": int64(time.Since(h.startedAt).Seconds()),
			},
		},
	})
}

func (h *HealthHandler) aiCheck() gin.H {
	var names []string
	if h.aiService != nil {
		for _, p := range h.aiService.Providers() {
			if p.APIKey != "" || p.Provider == "ollama" {
				names = append(names, p.Name)
			}
		}
	}
	if len(names) == 0 {
		return gin.H{"status": "not_configured", "message": "no AI provider has credentials"}
	}

	check := gin.H{"status": "configured", "providers": names}
	if h.usage != nil {
		if stats, err := h.usage.GetStats(time.Now().Add(-24 * time.Hour)); err == nil {
			check["last_24h"] = stats
			check["success_rate"] = stats.SuccessRate
		}
	}
	return check
}

// Database reports database connectivity
// GET /health/database
func (h *HealthHandler) Database(c *gin.Context) {
	ok, latency, err := h.pingDB(c.Request.Context())
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":           "disconnected",
			"response_time_ms": latency.Milliseconds(),
			"error":            err.Error(),
			"timestamp":        time.Now().UTC(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":           "connected",
		"driver":           h.db.Dialector.Name(),
		"response_time_ms": latency.Milliseconds(),
		"timestamp":        time.Now().UTC(),
	})
}

// Ready reports whether the service can take traffic
// GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	if ok, _, err := h.pingDB(c.Request.Context()); !ok {
		response.ErrorWithData(c, http.StatusServiceUnavailable, "Service not ready", err.Error(), gin.H{
			"status":   "not_ready",
			"database": "disconnected",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// Live reports that the process is running
// GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(h.startedAt).Seconds(),
	})
}

// AIService reports provider configuration and recent generation health
// GET /health/ai-service
func (h *HealthHandler) AIService(c *gin.Context) {
	check := h.aiCheck()
	check["service"] = "AI Service"
	check["timestamp"] = time.Now().UTC()

	if check["status"] == "not_configured" {
		c.JSON(http.StatusServiceUnavailable, check)
		return
	}
	c.JSON(http.StatusOK, check)
}

// Metrics reports process and connection pool metrics
// GET /health/metrics
func (h *HealthHandler) Metrics(c *gin.Context) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	database := gin.H{"status": "unavailable"}
	if h.db != nil {
		if sqlDB, err := h.db.DB(); err == nil {
			st := sqlDB.Stats()
			database = gin.H{
				"status":           "available",
				"driver":           h.db.Dialector.Name(),
				"open_connections": st.OpenConnections,
				"in_use":           st.InUse,
				"idle":             st.Idle,
				"wait_count":       st.WaitCount,
				"wait_duration_ms": st.WaitDuration.Milliseconds(),
				"max_open":         st.MaxOpenConnections,
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"timestamp": time.Now().UTC(),
		"process": gin.H{
			"pid":        os.Getpid(),
			"uptime":     time.Since(h.startedAt).Seconds(),
			"goroutines": runtime.NumGoroutine(),
			"memory": gin.H{
				"alloc":       mem.Alloc,
				"total_alloc": mem.TotalAlloc,
				"sys":         mem.Sys,
				"heap_alloc":  mem.HeapAlloc,
				"heap_inuse":  mem.HeapInuse,
				"num_gc":      mem.NumGC,
			},
		},
		"system": gin.H{
			"go":      runtime.Version(),
			"os":      runtime.GOOS,
			"arch":    runtime.GOARCH,
			"num_cpu": runtime.NumCPU(),
			"env":     h.environment,
		},
		"database": database,
	})
}
