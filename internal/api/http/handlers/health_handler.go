package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/akyravish/secure-user-service/internal/persistence"
)

// HealthHandler responds to health probes by checking dependencies.
type HealthHandler struct {
	serviceName string
	version     string
	postgres    *persistence.Postgres
	redis       *persistence.Redis
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, postgres *persistence.Postgres, redis *persistence.Redis) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, postgres: postgres, redis: redis}
}

// Check reports service health. No auth, no rate limiting.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	status := fiber.Map{
		"status":   "ok",
		"service":  h.serviceName,
		"version":  h.version,
		"database": "connected",
		"redis":    "connected",
	}
	healthy := true

	if err := h.postgres.Ping(ctx); err != nil {
		status["database"] = "unavailable"
		healthy = false
	}
	if err := h.redis.Ping(ctx); err != nil {
		status["redis"] = "unavailable"
		healthy = false
	}

	if !healthy {
		status["status"] = "error"
		return c.Status(fiber.StatusServiceUnavailable).JSON(status)
	}
	return c.JSON(status)
}
