package service

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/ibrahim-kiri/rate-my-professor/internal/config"
	"github.com/ibrahim-kiri/rate-my-professor/internal/models"
)

// LLM streams a chat completion for a conversation.
type LLM interface {
	// Stream starts a completion. system is the system prompt; history ends
	// with the user turn to answer.
	Stream(ctx context.Context, system string, history []models.Message) (TokenStream, error)
}

// TokenStream yields completion text as it arrives.
type TokenStream interface {
	// Next returns the next non-empty chunk, or io.EOF once the completion is done.
	Next() (string, error)
	Close() error
}

var defaultLLMModels = map[string]string{
	config.ProviderOpenAI: "gpt-4o-mini",
	config.ProviderVertex: "gemini-2.0-flash-lite-001",
	config.ProviderDummy:  "dummy",
}

// NewLLM builds the completion provider selected by cfg.LLMProvider.
func NewLLM(ctx context.Context, cfg *config.Config, log zerolog.Logger) (LLM, io.Closer, error) {
	model := cfg.LLMModel
	if model == "" {
		model = defaultLLMModels[cfg.LLMProvider]
	}
	log = log.With().Str("component", "llm").Str("provider", cfg.LLMProvider).Str("model", model).Logger()

	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		return NewOpenAILLM(OpenAIConfig{
			BaseURL: cfg.OpenAIBaseURL,
			APIKey:  cfg.OpenAIAPIKey,
			Model:   model,
			RPS:     cfg.OpenAIRPS,
		}, log), nopCloser{}, nil
	case config.ProviderVertex:
		l, err := NewVertexLLM(ctx, VertexConfig{
			ProjectID:       cfg.ProjectID,
			Location:        cfg.Location,
			Model:           model,
			CredentialsFile: cfg.CredentialsFile,
		})
		if err != nil {
			return nil, nil, err
		}
		return l, l, nil
	case config.ProviderDummy:
		return NewDummyLLM(), nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("%w: llm %q", ErrUnknownProvider, cfg.LLMProvider)
	}
}

// Collect drains s into a single string and closes it.
func Collect(s TokenStream) (string, error) {
	defer s.Close()

	var out []byte
	for {
		chunk, err := s.Next()
		if err == io.EOF {
			return string(out), nil
		}
		if err != nil {
			return string(out), err
		}
		out = append(out, chunk...)
	}
}
