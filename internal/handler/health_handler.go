package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/basetishop/shop_api/internal/utils"
)

var startTime = time.Now()

// Pinger is a dependency the health check pings.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger.
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler provides health endpoint.
type HealthHandler struct {
	db    Pinger
	redis Pinger
}

// NewHealthHandler creates a new HealthHandler. redis may be nil when the
// in-process store is used.
func NewHealthHandler(db, redis Pinger) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

// GetHealth responds with service, database and Redis status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	dbStatus := pingStatus(ctx, h.db)
	redisStatus := "disabled"
	if h.redis != nil {
		redisStatus = pingStatus(ctx, h.redis)
	}

	status, code, message := "healthy", 200, "Service is healthy"
	if dbStatus != "connected" || redisStatus == "disconnected" {
		status, code, message = "degraded", 503, "Service is degraded"
	}

	body := gin.H{
		"status":   status,
		"version":  "1.0.0",
		"uptime":   int(time.Since(startTime).Seconds()),
		"database": gin.H{"status": dbStatus},
		"redis":    gin.H{"status": redisStatus},
	}
	if code != 200 {
		utils.ErrorWithData(c, code, "SERVICE_DEGRADED", message, body)
		return
	}
	utils.Success(c, code, message, body)
}

func pingStatus(ctx context.Context, p Pinger) string {
	if p == nil {
		return "disconnected"
	}
	if err := p.Ping(ctx); err != nil {
		return "disconnected"
	}
	return "connected"
}
