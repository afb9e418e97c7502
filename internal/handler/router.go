package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ibrahim-kiri/rate-my-professor/internal/service"
)

// RegisterRoutes mounts every endpoint:
//
//	POST /api/chat                     streamed completion
//	GET  /api/v1/professors/search     nearest reviews as JSON
//	GET  /health
//	GET  /metrics
func RegisterRoutes(app *fiber.App, chatSvc service.ChatService, index Pinger, log zerolog.Logger, streamTimeout time.Duration) {
	api := app.Group("/api")
	NewChatHandler(chatSvc, log, streamTimeout).Register(api)

	v1 := api.Group("/v1")
	NewSearchHandler(chatSvc).Register(v1)

	NewHealthHandler(index).Register(app)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}
