package handler

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ibrahim-kiri/rate-my-professor/internal/models"
	"github.com/ibrahim-kiri/rate-my-professor/internal/service"
)

// SearchHandler wires HTTP → ChatService.Search.
type SearchHandler struct {
	svc service.ChatService
}

// NewSearchHandler returns a handler instance.
func NewSearchHandler(svc service.ChatService) *SearchHandler {
	return &SearchHandler{svc: svc}
}

// Register mounts GET /professors/search on the given router group.
func (h *SearchHandler) Register(r fiber.Router) {
	r.Get("/professors/search", h.search)
}

// search handles GET /professors/search?q=some+text&k=3
func (h *SearchHandler) search(c *fiber.Ctx) error {
	q := c.Query("q")
	if q == "" {
		return fiber.NewError(fiber.StatusBadRequest, "q (query) parameter is required")
	}

	kParam := c.Query("k", "3")
	k, err := strconv.Atoi(kParam)
	if err != nil || k <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "k must be a positive integer")
	}
	if k > service.MaxTopK {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("k must be at most %d", service.MaxTopK))
	}

	req := models.SearchRequest{
		Query: q,
		TopK:  k,
	}

	results, err := h.svc.Search(c.UserContext(), req.Query, req.TopK)
	if err != nil {
		if errors.Is(err, service.ErrInvalidConversation) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	return c.JSON(results)
}
