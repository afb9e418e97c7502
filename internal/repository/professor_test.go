package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	wvmodels "github.com/weaviate/weaviate/entities/models"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/ibrahim-kiri/rate-my-professor/internal/config"
	"github.com/ibrahim-kiri/rate-my-professor/internal/models"
)

func TestVectorSearchPipeline(t *testing.T) {
	vec := []float32{0.1, 0.2}
	p := vectorSearchPipeline("vector_index", vec, 3)
	require.Len(t, p, 2)

	search := p[0][0]
	assert.Equal(t, "$vectorSearch", search.Key)
	assert.Equal(t, bson.D{
		{Key: "index", Value: "vector_index"},
		{Key: "queryVector", Value: vec},
		{Key: "path", Value: "embedding"},
		{Key: "numCandidates", Value: 30},
		{Key: "limit", Value: 3},
	}, search.Value)

	project := p[1][0]
	assert.Equal(t, "$project", project.Key)
	assert.Contains(t, project.Value, bson.E{Key: "score", Value: bson.D{{Key: "$meta", Value: "vectorSearchScore"}}})
}

func TestProfessorDocBSON(t *testing.T) {
	doc := models.ProfessorDoc{
		Review:    models.Review{Professor: "Dr. Emily Johnson", Review: "Clear.", Subject: "CS", Stars: 5},
		Embedding: []float32{0.5},
	}
	raw, err := bson.Marshal(doc)
	require.NoError(t, err)

	var m bson.M
	require.NoError(t, bson.Unmarshal(raw, &m))
	assert.Equal(t, "Dr. Emily Johnson", m["_id"])
	assert.Equal(t, "CS", m["subject"])
	assert.Contains(t, m, "embedding")

	var match models.Match
	require.NoError(t, bson.Unmarshal(raw, &match))
	assert.Equal(t, "Dr. Emily Johnson", match.Professor)
	assert.Equal(t, 5.0, match.Stars)
}

func TestProfessorObjectID(t *testing.T) {
	a := ProfessorObjectID("Dr. Sarah Kim")
	assert.Equal(t, a, ProfessorObjectID("Dr. Sarah Kim"))
	assert.NotEqual(t, a, ProfessorObjectID("Dr. Sarah Kimball"))

	id, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(5), id.Version())
}

func TestProfessorClass(t *testing.T) {
	c := professorClass("Professor")
	assert.Equal(t, "Professor", c.Class)
	assert.Equal(t, "none", c.Vectorizer)

	names := make([]string, 0, len(c.Properties))
	for _, p := range c.Properties {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"name", "review", "subject", "stars"}, names)
}

func TestParseMatches(t *testing.T) {
	var data map[string]wvmodels.JSONObject
	require.NoError(t, json.Unmarshal([]byte(`{
		"Get": {"Professor": [
			{"name": "Dr. Emily Johnson", "review": "Clear.", "subject": "CS", "stars": 5, "_additional": {"certainty": 0.93}},
			{"name": "Prof. Michael Lee", "review": "Tough.", "subject": "Physics", "stars": 3.5},
			"garbage"
		]}
	}`), &data))

	got := parseMatches(data, "Professor")
	assert.Equal(t, []models.Match{
		{Professor: "Dr. Emily Johnson", Review: "Clear.", Subject: "CS", Stars: 5, Score: 0.93},
		{Professor: "Prof. Michael Lee", Review: "Tough.", Subject: "Physics", Stars: 3.5},
	}, got)
}

func TestParseMatches_Malformed(t *testing.T) {
	assert.Empty(t, parseMatches(nil, "Professor"))
	assert.NotNil(t, parseMatches(nil, "Professor"))
	assert.Empty(t, parseMatches(map[string]wvmodels.JSONObject{"Get": map[string]interface{}{}}, "Professor"))
	assert.Empty(t, parseMatches(map[string]wvmodels.JSONObject{"Get": "nope"}, "Professor"))
}

func TestNumberField(t *testing.T) {
	m := map[string]interface{}{"a": 4.5, "b": json.Number("3.25"), "c": "2", "d": true}
	assert.Equal(t, 4.5, numberField(m, "a"))
	assert.Equal(t, 3.25, numberField(m, "b"))
	assert.Equal(t, 2.0, numberField(m, "c"))
	assert.Equal(t, 0.0, numberField(m, "d"))
	assert.Equal(t, 0.0, numberField(m, "missing"))
}

func TestNewProfessorStore(t *testing.T) {
	cfg := config.NewForTesting()

	store, err := NewProfessorStore(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &ProfessorWeaviate{}, store)
	_, ok := store.(SchemaEnsurer)
	assert.True(t, ok)

	cfg.VectorStore = "pinecone"
	_, err = NewProfessorStore(context.Background(), cfg, zerolog.Nop())
	assert.ErrorIs(t, err, ErrUnknownStore)
}

func TestProfessorWeaviate_QueryWrapsClientError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	host := strings.TrimPrefix(srv.URL, "http://")
	srv.Close()

	store, err := NewProfessorWeaviate("http", host, "Professor", zerolog.Nop())
	require.NoError(t, err)

	_, err = store.Query(context.Background(), []float32{0.1, 0.2}, 3)
	require.Error(t, err)
	assert.ErrorContains(t, err, "near vector query on Professor")
}
