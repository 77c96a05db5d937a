package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retailflow-api/internal/application/dto"
)

// Pinger lo implementan el pool de PostgreSQL y el store en memoria.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health godoc
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Failure      503  {object}  dto.HealthResponse
// @Router       /health [get]
func Health(storage string, p Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()
		if p != nil {
			if err := p.Ping(ctx); err != nil {
				c.Locals(localError, err)
				return c.Status(fiber.StatusServiceUnavailable).JSON(dto.HealthResponse{Status: "unavailable", Storage: storage})
			}
		}
		return c.JSON(dto.HealthResponse{Status: "ok", Storage: storage})
	}
}
