package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/ibrahim-kiri/rate-my-professor/internal/config"
)

// ErrUnknownProvider is returned by the factories for unsupported provider names.
var ErrUnknownProvider = errors.New("unknown provider")

// Embedder defines the interface for text embedding services.
type Embedder interface {
	// Embed converts a text string into a vector embedding.
	Embed(ctx context.Context, text string) ([]float32, error)
}

var defaultEmbedModels = map[string]string{
	config.ProviderOpenAI: "text-embedding-3-small",
	config.ProviderVertex: "text-embedding-005",
	config.ProviderDummy:  "dummy",
}

// NewEmbedder builds the embedder selected by cfg.EmbedProvider.
// The returned Closer must be closed on shutdown.
func NewEmbedder(ctx context.Context, cfg *config.Config, log zerolog.Logger) (Embedder, io.Closer, error) {
	model := cfg.EmbedModel
	if model == "" {
		model = defaultEmbedModels[cfg.EmbedProvider]
	}
	log = log.With().Str("component", "embedder").Str("provider", cfg.EmbedProvider).Str("model", model).Logger()

	switch cfg.EmbedProvider {
	case config.ProviderOpenAI:
		e := NewOpenAIEmbedder(OpenAIConfig{
			BaseURL: cfg.OpenAIBaseURL,
			APIKey:  cfg.OpenAIAPIKey,
			Model:   model,
			RPS:     cfg.OpenAIRPS,
		}, log)
		return e, nopCloser{}, nil
	case config.ProviderVertex:
		e, err := NewVertexEmbedder(ctx, VertexConfig{
			ProjectID:       cfg.ProjectID,
			Location:        cfg.Location,
			Model:           model,
			CredentialsFile: cfg.CredentialsFile,
		})
		if err != nil {
			return nil, nil, err
		}
		return e, e, nil
	case config.ProviderDummy:
		return NewDummyEmbedder(0), nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("%w: embedder %q", ErrUnknownProvider, cfg.EmbedProvider)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
