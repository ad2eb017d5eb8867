package handler

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// healthTimeout bounds the store pings of a single /health request.
const healthTimeout = 2 * time.Second

// HealthChecker pings the stores behind the pipeline. A nil value means healthy.
type HealthChecker interface {
	Health(ctx context.Context) map[string]error
}

// HealthResponse is the body of a healthy /health response.
type HealthResponse struct {
	Status string            `json:"status"`
	Stores map[string]string `json:"stores"`
}

// HealthCheck godoc
// @Summary Readiness probe
// @Description Pings the relational store, the document store and the dedup cache.
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} errorPayload
// @Router /health [get]
func HealthCheck(h HealthChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
		defer cancel()

		res := HealthResponse{Status: "healthy", Stores: map[string]string{}}
		var down []string
		for name, err := range h.Health(ctx) {
			if err != nil {
				res.Stores[name] = "unavailable"
				down = append(down, name)
				continue
			}
			res.Stores[name] = "ok"
		}
		if len(down) > 0 {
			sort.Strings(down)
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable: "+strings.Join(down, ", "))
		}
		return c.Status(fiber.StatusOK).JSON(res)
	}
}

// LivenessProbe godoc
// @Summary Liveness probe
// @Tags health
// @Success 200
// @Router /healthz [get]
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
