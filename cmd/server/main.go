package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ibrahim-kiri/rate-my-professor/internal/config"
	"github.com/ibrahim-kiri/rate-my-professor/internal/handler"
	"github.com/ibrahim-kiri/rate-my-professor/internal/logger"
	"github.com/ibrahim-kiri/rate-my-professor/internal/middleware"
	"github.com/ibrahim-kiri/rate-my-professor/internal/repository"
	"github.com/ibrahim-kiri/rate-my-professor/internal/service"
)

// main is the single entry‑point for the chat API.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log := logger.New("rmp-server", "info")
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logger.New("rmp-server", cfg.LogLevel)
	log.Info().
		Str("environment", cfg.Environment).
		Str("port", cfg.Port).
		Str("embed_provider", cfg.EmbedProvider).
		Str("llm_provider", cfg.LLMProvider).
		Str("vector_store", cfg.VectorStore).
		Int("index_dimension", cfg.IndexDimension).
		Bool("projection_seeded", cfg.ProjectionSeed != 0).
		Int("top_k", cfg.TopK).
		Msg("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Vector index
	store, err := repository.NewProfessorStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize professor index")
	}
	defer store.Close(context.Background())

	// Model providers
	embedder, embedCloser, err := service.NewEmbedder(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize embedder")
	}
	defer embedCloser.Close()

	llm, llmCloser, err := service.NewLLM(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize LLM")
	}
	defer llmCloser.Close()

	projection := service.Projection{Dimension: cfg.IndexDimension, Seed: cfg.ProjectionSeed}
	chatSvc := service.NewChatService(store, embedder, llm, projection, cfg.TopK, log)

	app := fiber.New(fiber.Config{
		ReadTimeout:           cfg.ReadTimeout(),
		WriteTimeout:          cfg.WriteTimeout(),
		ErrorHandler:          handler.ErrorHandler,
		DisableStartupMessage: true,
	})

	app.Use(fiberrecover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logging(log))

	handler.RegisterRoutes(app, chatSvc, store, log, handler.DefaultStreamTimeout)

	go func() {
		<-ctx.Done()
		log.Info().Msg("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.Addr()).Msg("Server starting")
	if err := app.Listen(cfg.Addr()); err != nil {
		log.Fatal().Err(err).Msg("Server failed to start")
	}
}
