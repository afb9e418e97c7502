package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/iterator"

	"github.com/ibrahim-kiri/rate-my-professor/internal/models"
)

// VertexLLM implements the LLM interface using Gemini on Vertex AI.
type VertexLLM struct {
	client *genai.Client
	model  string
}

// NewVertexLLM creates a new Vertex AI LLM client.
func NewVertexLLM(ctx context.Context, cfg VertexConfig) (*VertexLLM, error) {
	client, err := genai.NewClient(ctx, cfg.ProjectID, cfg.Location, cfg.credentialOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vertex AI client: %w", err)
	}
	return &VertexLLM{client: client, model: cfg.Model}, nil
}

// Stream replays history into a chat session and streams the reply to its
// final user turn.
func (l *VertexLLM) Stream(ctx context.Context, system string, history []models.Message) (TokenStream, error) {
	if len(history) == 0 {
		return nil, fmt.Errorf("empty history")
	}

	model := l.client.GenerativeModel(l.model)
	model.SetTemperature(0.7)
	model.SetTopP(0.8)
	model.SetTopK(40)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}

	past, prompt := splitPrompt(toGenaiHistory(history))
	if len(prompt) == 0 {
		return nil, fmt.Errorf("history has no user turn to answer")
	}
	cs := model.StartChat()
	cs.History = past

	return &vertexStream{iter: cs.SendMessageStream(ctx, prompt...)}, nil
}

// splitPrompt pops a trailing user turn off contents. Its parts are what
// SendMessageStream sends; the rest becomes the session history.
func splitPrompt(contents []*genai.Content) ([]*genai.Content, []genai.Part) {
	n := len(contents)
	if n == 0 || contents[n-1].Role != "user" {
		return contents, nil
	}
	return contents[:n-1], contents[n-1].Parts
}

// toGenaiHistory maps chat turns onto Gemini contents. Gemini wants the
// history to open with a user turn and to alternate roles, so leading
// assistant turns (the UI greeting) are dropped, consecutive turns of the
// same role are merged, and system turns are skipped. Blank turns, such as
// the placeholder left behind by an aborted reply, carry no part and are
// skipped too.
func toGenaiHistory(history []models.Message) []*genai.Content {
	var out []*genai.Content
	for _, m := range history {
		var role string
		switch m.Role {
		case models.RoleUser:
			role = "user"
		case models.RoleAssistant:
			role = "model"
		default:
			continue
		}
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		if len(out) == 0 && role != "user" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Role == role {
			out[n-1].Parts = append(out[n-1].Parts, genai.Text(m.Content))
			continue
		}
		out = append(out, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(m.Content)}})
	}
	return out
}

type vertexStream struct {
	iter *genai.GenerateContentResponseIterator
}

func (s *vertexStream) Next() (string, error) {
	for {
		resp, err := s.iter.Next()
		if errors.Is(err, iterator.Done) {
			return "", io.EOF
		}
		if err != nil {
			return "", fmt.Errorf("failed to generate response: %w", err)
		}
		if text := responseText(resp); text != "" {
			return text, nil
		}
	}
}

func (s *vertexStream) Close() error { return nil }

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String()
}

// Close closes the Vertex AI client.
func (l *VertexLLM) Close() error {
	return l.client.Close()
}
