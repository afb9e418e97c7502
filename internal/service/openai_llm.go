package service

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/ibrahim-kiri/rate-my-professor/internal/models"
)

// OpenAILLM streams chat completions from POST {base}/chat/completions.
type OpenAILLM struct {
	client *openAIClient
	log    zerolog.Logger
}

// NewOpenAILLM creates a streaming chat client. No client timeout is set;
// the caller's context bounds the stream.
func NewOpenAILLM(cfg OpenAIConfig, log zerolog.Logger) *OpenAILLM {
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	cfg.Timeout = 0
	return &OpenAILLM{client: newOpenAIClient(cfg), log: log}
}

type chatCompletionRequest struct {
	Model    string           `json:"model"`
	Messages []models.Message `json:"messages"`
	Stream   bool             `json:"stream"`
}

type chatCompletionChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Stream sends the system prompt followed by history.
func (l *OpenAILLM) Stream(ctx context.Context, system string, history []models.Message) (TokenStream, error) {
	messages := make([]models.Message, 0, len(history)+1)
	messages = append(messages, models.Message{Role: models.RoleSystem, Content: system})
	messages = append(messages, history...)

	body := chatCompletionRequest{Model: l.client.model, Messages: messages, Stream: true}
	resp, err := l.client.do(ctx, func() (*resty.Response, error) {
		return l.client.http.R().
			SetContext(ctx).
			SetHeader("Accept", "text/event-stream").
			SetDoNotParseResponse(true).
			SetBody(&body).
			Post("/chat/completions")
	})
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}

	l.log.Debug().Int("messages", len(messages)).Msg("completion stream opened")
	return newSSEStream(resp.RawBody()), nil
}

// sseStream decodes "data: {...}" server-sent events until "data: [DONE]".
type sseStream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	done    bool
}

func newSSEStream(body io.ReadCloser) *sseStream {
	sc := bufio.NewScanner(body)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &sseStream{body: body, scanner: sc}
}

func (s *sseStream) Next() (string, error) {
	if s.done {
		return "", io.EOF
	}
	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue // blank separators, comments, event: lines
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "[DONE]" {
			s.done = true
			return "", io.EOF
		}

		var chunk chatCompletionChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			return "", fmt.Errorf("decode stream chunk: %w", err)
		}
		if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
			continue
		}
		return chunk.Choices[0].Delta.Content, nil
	}
	if err := s.scanner.Err(); err != nil {
		return "", fmt.Errorf("read stream: %w", err)
	}
	s.done = true
	return "", io.EOF
}

func (s *sseStream) Close() error {
	s.done = true
	return s.body.Close()
}
