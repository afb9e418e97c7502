package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// OpenAIEmbedder calls POST {base}/embeddings on an OpenAI-compatible API.
type OpenAIEmbedder struct {
	client *openAIClient
	log    zerolog.Logger
}

// NewOpenAIEmbedder creates an embedder; cfg.Timeout defaults to 30s.
func NewOpenAIEmbedder(cfg OpenAIConfig, log zerolog.Logger) *OpenAIEmbedder {
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &OpenAIEmbedder{client: newOpenAIClient(cfg), log: log}
}

type embeddingRequest struct {
	Model          string `json:"model"`
	Input          string `json:"input"`
	EncodingFormat string `json:"encoding_format"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// Embed returns the embedding of text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("empty text")
	}

	body := embeddingRequest{Model: e.client.model, Input: text, EncodingFormat: "float"}
	resp, err := e.client.do(ctx, func() (*resty.Response, error) {
		return e.client.http.R().SetContext(ctx).SetBody(&body).Post("/embeddings")
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}

	var er embeddingResponse
	if err := json.Unmarshal(resp.Body(), &er); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(er.Data) == 0 || len(er.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("openai embeddings: no embedding returned")
	}

	vec := make([]float32, len(er.Data[0].Embedding))
	for i, v := range er.Data[0].Embedding {
		vec[i] = float32(v)
	}
	e.log.Debug().Int("dimension", len(vec)).Msg("embedded query")
	return vec, nil
}
