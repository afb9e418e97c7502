package service

import (
	"testing"

	"cloud.google.com/go/vertexai/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/ibrahim-kiri/rate-my-professor/internal/models"
)

func TestEmbeddingFromPredictions(t *testing.T) {
	pred, err := structpb.NewValue(map[string]interface{}{
		"embeddings": map[string]interface{}{
			"values":     []interface{}{0.5, -0.25, 1.0},
			"statistics": map[string]interface{}{"token_count": 4.0},
		},
	})
	require.NoError(t, err)

	vec, err := embeddingFromPredictions([]*structpb.Value{pred})
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, -0.25, 1}, vec)
}

func TestEmbeddingFromPredictions_Errors(t *testing.T) {
	_, err := embeddingFromPredictions(nil)
	assert.ErrorContains(t, err, "no predictions")

	pred, err := structpb.NewValue(map[string]interface{}{"embeddings": map[string]interface{}{}})
	require.NoError(t, err)
	_, err = embeddingFromPredictions([]*structpb.Value{pred})
	assert.ErrorContains(t, err, "no embedding values")
}

func TestToGenaiHistory(t *testing.T) {
	history := []models.Message{
		{Role: models.RoleAssistant, Content: "Hi! How can I help?"},
		{Role: models.RoleSystem, Content: "ignored"},
		{Role: models.RoleUser, Content: "physics?"},
		{Role: models.RoleUser, Content: "or chemistry"},
		{Role: models.RoleAssistant, Content: "Prof. Lee."},
		{Role: models.RoleUser, Content: "thanks"},
	}

	got := toGenaiHistory(history)
	require.Len(t, got, 3)

	assert.Equal(t, "user", got[0].Role)
	assert.Equal(t, []genai.Part{genai.Text("physics?"), genai.Text("or chemistry")}, got[0].Parts)
	assert.Equal(t, "model", got[1].Role)
	assert.Equal(t, []genai.Part{genai.Text("Prof. Lee.")}, got[1].Parts)
	assert.Equal(t, "user", got[2].Role)
}

func TestToGenaiHistory_SkipsBlankTurns(t *testing.T) {
	history := []models.Message{
		{Role: models.RoleUser, Content: "a"},
		{Role: models.RoleAssistant, Content: ""},
		{Role: models.RoleUser, Content: "b"},
		{Role: models.RoleAssistant, Content: "  "},
	}

	got := toGenaiHistory(history)
	require.Len(t, got, 1)
	assert.Equal(t, "user", got[0].Role)
	assert.Equal(t, []genai.Part{genai.Text("a"), genai.Text("b")}, got[0].Parts)
}

func TestSplitPrompt(t *testing.T) {
	// An aborted reply leaves an empty assistant turn between two questions.
	history := []models.Message{
		{Role: models.RoleAssistant, Content: "Hi! How can I help?"},
		{Role: models.RoleUser, Content: "a"},
		{Role: models.RoleAssistant, Content: ""},
		{Role: models.RoleUser, Content: "b"},
		{Role: models.RoleUser, Content: "c"},
	}

	past, prompt := splitPrompt(toGenaiHistory(history))
	assert.Empty(t, past)
	assert.Equal(t, []genai.Part{genai.Text("a"), genai.Text("b"), genai.Text("c")}, prompt)
}

func TestSplitPrompt_KeepsAlternatingHistory(t *testing.T) {
	history := []models.Message{
		{Role: models.RoleUser, Content: "physics?"},
		{Role: models.RoleAssistant, Content: "Prof. Lee."},
		{Role: models.RoleUser, Content: "and chemistry?"},
	}

	past, prompt := splitPrompt(toGenaiHistory(history))
	require.Len(t, past, 2)
	assert.Equal(t, "user", past[0].Role)
	assert.Equal(t, "model", past[1].Role)
	for _, c := range past {
		assert.NotEmpty(t, c.Parts)
	}
	assert.Equal(t, []genai.Part{genai.Text("and chemistry?")}, prompt)
}

func TestSplitPrompt_NoUserTurn(t *testing.T) {
	past, prompt := splitPrompt(toGenaiHistory([]models.Message{{Role: models.RoleAssistant, Content: "hello"}}))
	assert.Empty(t, past)
	assert.Nil(t, prompt)
}

func TestResponseText(t *testing.T) {
	assert.Empty(t, responseText(nil))
	assert.Empty(t, responseText(&genai.GenerateContentResponse{}))

	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []genai.Part{genai.Text("Dr. "), genai.Text("Kim")}},
	}}}
	assert.Equal(t, "Dr. Kim", responseText(resp))
}
