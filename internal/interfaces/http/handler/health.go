package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/schoolhub/backend/internal/infrastructure/persistence"
)

// HealthHandler reports process liveness and dependency readiness
type HealthHandler struct {
	BaseHandler
	db      *persistence.Database
	redis   *redis.Client
	version string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *persistence.Database, redisClient *redis.Client, version string) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient, version: version}
}

// Live reports that the process is up
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": h.version})
}

// Ready reports whether the database and redis are reachable
func (h *HealthHandler) Ready(c *gin.Context) {
	status := http.StatusOK
	checks := gin.H{}

	if err := h.db.Ping(); err != nil {
		checks["database"] = "down"
		status = http.StatusServiceUnavailable
	} else {
		checks["database"] = "up"
		if stats, err := h.db.Stats(); err == nil {
			checks["database_connections"] = gin.H{
				"open":   stats.Open,
				"in_use": stats.InUse,
				"idle":   stats.Idle,
			}
		}
	}

	if h.redis != nil {
		if err := h.redis.Ping(c.Request.Context()).Err(); err != nil {
			checks["redis"] = "down"
			status = http.StatusServiceUnavailable
		} else {
			checks["redis"] = "up"
		}
	}

	c.JSON(status, gin.H{"status": checks, "version": h.version})
}
