package handler

import (
	"bufio"
	"context"
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ibrahim-kiri/rate-my-professor/internal/metrics"
	"github.com/ibrahim-kiri/rate-my-professor/internal/middleware"
	"github.com/ibrahim-kiri/rate-my-professor/internal/models"
	"github.com/ibrahim-kiri/rate-my-professor/internal/service"
)

// DefaultStreamTimeout bounds one chat exchange, retrieval plus completion.
const DefaultStreamTimeout = 2 * time.Minute

// ChatHandler wires HTTP → ChatService.
type ChatHandler struct {
	svc     service.ChatService
	log     zerolog.Logger
	timeout time.Duration
}

// NewChatHandler returns a struct pointer so you can call Register on it.
func NewChatHandler(svc service.ChatService, log zerolog.Logger, timeout time.Duration) *ChatHandler {
	if timeout <= 0 {
		timeout = DefaultStreamTimeout
	}
	return &ChatHandler{svc: svc, log: log.With().Str("component", "chat_handler").Logger(), timeout: timeout}
}

// Register mounts POST /chat on the supplied router group.
func (h *ChatHandler) Register(r fiber.Router) {
	r.Post("/chat", h.chat)
}

// chat handles POST /chat  [{"role": "user", "content": "..."}, ...]
// and streams the completion back as plain text.
func (h *ChatHandler) chat(c *fiber.Ctx) error {
	var history []models.Message
	if err := c.BodyParser(&history); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body: expected an array of messages")
	}

	// The body is written after this handler returns, when c has been
	// recycled, so the pipeline gets its own context.
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	stream, err := h.svc.Stream(ctx, history)
	if err != nil {
		cancel()
		if errors.Is(err, service.ErrInvalidConversation) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	// fasthttp runs the stream writer on its own goroutine as soon as it is
	// set, and the writer's deferred cancel ends ctx once the body is done or
	// the client is gone. A server shutdown ends it early.
	serverDone := c.Context().Done()
	go func() {
		select {
		case <-serverDone:
			cancel()
		case <-ctx.Done():
		}
	}()

	log := h.log.With().Str("request_id", middleware.GetRequestID(c)).Logger()

	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set("X-Accel-Buffering", "no")
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()
		defer stream.Close()
		pipe(w, stream, log)
	})
	return nil
}

// pipe copies chunks to w, flushing after each so the browser renders
// tokens as they arrive. A failed flush means the client went away.
func pipe(w *bufio.Writer, stream service.TokenStream, log zerolog.Logger) {
	chunks := 0
	for {
		chunk, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			metrics.ChatStreamErrorsTotal.WithLabelValues("stream").Inc()
			log.Error().Err(err).Int("chunks", chunks).Msg("completion stream failed")
			return
		}
		if _, err := w.WriteString(chunk); err != nil {
			log.Warn().Err(err).Msg("write to client failed")
			return
		}
		if err := w.Flush(); err != nil {
			log.Warn().Err(err).Msg("client disconnected")
			return
		}
		chunks++
	}
	log.Info().Int("chunks", chunks).Msg("completion streamed")
}
