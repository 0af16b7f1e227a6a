package health

import (
	"context"
	"strconv"
	"time"

	"bartr-backend/internal/middleware"
	"bartr-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// DBPinger is satisfied by the router's gorm wrapper.
type DBPinger interface {
	Ping() error
}

// Handlers holds dependencies for health endpoints.
type Handlers struct {
	Rdb            *redis.Client
	DB             DBPinger
	HealthAdminKey string
	StartedAt      time.Time
}

// JSON GET /health/json — service status, uptime, traffic counters and
// dependency checks in one payload.
func (h *Handlers) JSON(c *fiber.Ctx) error {
	ctx := context.Background()

	reqTotal, _ := h.Rdb.Get(ctx, middleware.KeyReqTotal).Int64()
	reqErrors, _ := h.Rdb.Get(ctx, middleware.KeyReqErrors).Int64()
	resTime, _ := h.Rdb.Get(ctx, middleware.KeyResTime).Float64()
	resCount, _ := h.Rdb.Get(ctx, middleware.KeyResCount).Int64()
	lastReq, _ := h.Rdb.Get(ctx, middleware.KeyLastReq).Result()

	avgMs := float64(0)
	if resCount > 0 {
		avgMs = resTime / float64(resCount)
	}

	redisUp := h.Rdb.Ping(ctx).Err() == nil
	dbUp := false
	if h.DB != nil {
		dbUp = h.DB.Ping() == nil
	}

	status := "ok"
	if !redisUp || !dbUp {
		status = "degraded"
	}

	return c.JSON(fiber.Map{
		"service": "bartr-api",
		"status":  status,
		"runtime": fiber.Map{
			"uptime_seconds": int64(time.Since(h.StartedAt).Seconds()),
		},
		"traffic": fiber.Map{
			"requests_total":   reqTotal,
			"requests_errors":  reqErrors,
			"avg_response_ms":  avgMs,
			"responses_total":  resCount,
			"last_request_raw": lastReq,
		},
		"dependencies": fiber.Map{
			"postgres": dbUp,
			"redis":    redisUp,
		},
	})
}

// Reset GET /health/reset — clears traffic counters. Requires query
// key=HEALTH_ADMIN_KEY.
func (h *Handlers) Reset(c *fiber.Ctx) error {
	key := c.Query("key")
	if key == "" || key != h.HealthAdminKey {
		return response.Error(c, "Unauthorized", fiber.StatusForbidden, nil)
	}
	ctx := context.Background()
	keys := []string{middleware.KeyReqTotal, middleware.KeyReqErrors, middleware.KeyResTime, middleware.KeyResCount, middleware.KeyLastReq}
	if err := h.Rdb.Del(ctx, keys...).Err(); err != nil {
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	h.StartedAt = time.Now()
	return response.Success(c, "Stats reset successfully", fiber.Map{
		"success":  true,
		"reset_at": strconv.FormatInt(time.Now().UnixMilli(), 10),
	}, nil)
}
