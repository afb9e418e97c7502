package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger is anything that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	index Pinger
}

func NewHealthHandler(index Pinger) *HealthHandler {
	return &HealthHandler{index: index}
}

func (h *HealthHandler) Register(r fiber.Router) {
	r.Get("/health", h.health)
}

func (h *HealthHandler) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"index":  h.checkIndex(c.UserContext()),
	})
}

func (h *HealthHandler) checkIndex(ctx context.Context) string {
	if h.index == nil {
		return "not_configured"
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := h.index.Ping(ctx); err != nil {
		return "error"
	}
	return "connected"
}
