package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	pool  *pgxpool.Pool
	redis *redis.Client // optional
}

// NewHealthHandler creates a health handler. redisClient may be nil.
func NewHealthHandler(pool *pgxpool.Pool, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{pool: pool, redis: redisClient}
}

// Live reports process liveness.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports dependency readiness: database required, cache optional.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := c.Request.Context(), func() {}
	defer cancel()

	checks := gin.H{}
	status := http.StatusOK

	start := time.Now()
	if err := h.pool.Ping(ctx); err != nil {
		checks["database"] = gin.H{"status": "down", "error": err.Error()}
		status = http.StatusServiceUnavailable
	} else {
		checks["database"] = gin.H{"status": "up", "latency_ms": time.Since(start).Milliseconds()}
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			// Cache is a soft dependency: candidate reads fall through.
			checks["cache"] = gin.H{"status": "down", "error": err.Error()}
		} else {
			checks["cache"] = gin.H{"status": "up"}
		}
	}

	c.JSON(status, gin.H{"checks": checks})
}
