package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	weaviate "github.com/weaviate/weaviate-go-client/v5/weaviate"
	gql "github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	wvmodels "github.com/weaviate/weaviate/entities/models"

	"github.com/ibrahim-kiri/rate-my-professor/internal/models"
)

// professorNamespace seeds the deterministic object IDs.
var professorNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("rate-my-professor/professor"))

// ProfessorWeaviate keeps professor reviews in a Weaviate class with
// caller-supplied vectors (vectorizer "none").
type ProfessorWeaviate struct {
	client *weaviate.Client
	class  string
	log    zerolog.Logger
}

// NewProfessorWeaviate constructs the store for scheme://host.
func NewProfessorWeaviate(scheme, host, class string, log zerolog.Logger) (*ProfessorWeaviate, error) {
	cl, err := weaviate.NewClient(weaviate.Config{Scheme: scheme, Host: host})
	if err != nil {
		return nil, fmt.Errorf("weaviate client: %w", err)
	}
	return &ProfessorWeaviate{
		client: cl,
		class:  class,
		log:    log.With().Str("component", "professor_weaviate").Logger(),
	}, nil
}

// ProfessorObjectID is the object UUID used for a professor name.
func ProfessorObjectID(professor string) string {
	return uuid.NewSHA1(professorNamespace, []byte(professor)).String()
}

// professorClass describes the schema created by EnsureSchema.
func professorClass(name string) *wvmodels.Class {
	return &wvmodels.Class{
		Class:      name,
		Vectorizer: "none",
		Properties: []*wvmodels.Property{
			{Name: "name", DataType: []string{"text"}},
			{Name: "review", DataType: []string{"text"}},
			{Name: "subject", DataType: []string{"text"}},
			{Name: "stars", DataType: []string{"number"}},
		},
	}
}

// EnsureSchema creates the class when it does not exist yet.
func (w *ProfessorWeaviate) EnsureSchema(ctx context.Context) error {
	exists, err := w.client.Schema().ClassExistenceChecker().WithClassName(w.class).Do(ctx)
	if err != nil {
		return fmt.Errorf("check class %s: %w", w.class, err)
	}
	if exists {
		return nil
	}
	if err := w.client.Schema().ClassCreator().WithClass(professorClass(w.class)).Do(ctx); err != nil {
		return fmt.Errorf("create class %s: %w", w.class, err)
	}
	w.log.Info().Str("class", w.class).Msg("created weaviate class")
	return nil
}

// Query runs a nearVector search.
func (w *ProfessorWeaviate) Query(ctx context.Context, vec []float32, k int) ([]models.Match, error) {
	near := w.client.GraphQL().NearVectorArgBuilder().WithVector(vec)

	resp, err := w.client.GraphQL().Get().
		WithClassName(w.class).
		WithNearVector(near).
		WithLimit(k).
		WithFields(
			gql.Field{Name: "name"},
			gql.Field{Name: "review"},
			gql.Field{Name: "subject"},
			gql.Field{Name: "stars"},
			gql.Field{Name: "_additional", Fields: []gql.Field{{Name: "certainty"}}},
		).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("near vector query on %s: %w", w.class, err)
	}
	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("weaviate graphql: %s", formatGraphQLErrors(resp.Errors))
	}
	return parseMatches(resp.Data, w.class), nil
}

// Upsert creates the professor's object or replaces it in place.
func (w *ProfessorWeaviate) Upsert(ctx context.Context, doc models.ProfessorDoc) error {
	id := ProfessorObjectID(doc.Professor)
	props := map[string]interface{}{
		"name":    doc.Professor,
		"review":  doc.Review.Review,
		"subject": doc.Subject,
		"stars":   doc.Stars,
	}

	exists, err := w.client.Data().Checker().WithClassName(w.class).WithID(id).Do(ctx)
	if err != nil {
		return fmt.Errorf("check %s: %w", doc.Professor, err)
	}
	if exists {
		err = w.client.Data().Updater().WithClassName(w.class).WithID(id).WithProperties(props).WithVector(doc.Embedding).Do(ctx)
	} else {
		_, err = w.client.Data().Creator().WithClassName(w.class).WithID(id).WithProperties(props).WithVector(doc.Embedding).Do(ctx)
	}
	if err != nil {
		return fmt.Errorf("upsert %s: %w", doc.Professor, err)
	}
	return nil
}

// Ping uses the liveness endpoint.
func (w *ProfessorWeaviate) Ping(ctx context.Context) error {
	live, err := w.client.Misc().LiveChecker().Do(ctx)
	if err != nil {
		return err
	}
	if !live {
		return fmt.Errorf("weaviate is not live")
	}
	return nil
}

// Close is a no-op; the client holds no pooled resources.
func (w *ProfessorWeaviate) Close(context.Context) error { return nil }

// parseMatches reads Get.<class>[] out of a GraphQL response. Missing or
// oddly shaped data is treated as no results.
func parseMatches(data map[string]wvmodels.JSONObject, class string) []models.Match {
	getData, ok := data["Get"].(map[string]interface{})
	if !ok {
		return []models.Match{}
	}
	raw, ok := getData[class].([]interface{})
	if !ok {
		return []models.Match{}
	}

	out := make([]models.Match, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		match := models.Match{
			Professor: stringField(m, "name"),
			Review:    stringField(m, "review"),
			Subject:   stringField(m, "subject"),
			Stars:     numberField(m, "stars"),
		}
		if add, ok := m["_additional"].(map[string]interface{}); ok {
			match.Score = numberField(add, "certainty")
		}
		out = append(out, match)
	}
	return out
}

func stringField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

func numberField(m map[string]interface{}, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case json.Number:
		f, _ := v.Float64()
		return f
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	}
	return 0
}

// formatGraphQLErrors returns compact string with messages extracted for logging.
func formatGraphQLErrors(errs interface{}) string {
	if b, err := json.Marshal(errs); err == nil {
		return string(b)
	}
	return fmt.Sprintf("%v", errs)
}
