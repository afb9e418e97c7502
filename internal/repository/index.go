package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ibrahim-kiri/rate-my-professor/internal/config"
	"github.com/ibrahim-kiri/rate-my-professor/internal/database"
	"github.com/ibrahim-kiri/rate-my-professor/internal/models"
)

// ErrUnknownStore is returned for unsupported VECTOR_STORE values.
var ErrUnknownStore = errors.New("unknown vector store")

// ProfessorStore is implemented by every backend. Its method set is a
// superset of service.ProfessorIndex.
type ProfessorStore interface {
	Query(ctx context.Context, vec []float32, k int) ([]models.Match, error)
	Upsert(ctx context.Context, doc models.ProfessorDoc) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// SchemaEnsurer is implemented by stores that can create their own schema.
type SchemaEnsurer interface {
	EnsureSchema(ctx context.Context) error
}

var (
	_ ProfessorStore = (*ProfessorMongo)(nil)
	_ ProfessorStore = (*ProfessorWeaviate)(nil)
	_ SchemaEnsurer  = (*ProfessorWeaviate)(nil)
)

// NewProfessorStore connects to the backend selected by cfg.VectorStore.
func NewProfessorStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ProfessorStore, error) {
	switch cfg.VectorStore {
	case config.StoreMongo:
		client, err := database.NewMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, fmt.Errorf("connect to MongoDB: %w", err)
		}
		log.Info().Str("db", cfg.DBName).Str("collection", cfg.MongoCollection).Msg("connected to MongoDB")
		return NewProfessorMongo(client, cfg.DBName, cfg.MongoCollection, cfg.MongoVectorIndex, log), nil
	case config.StoreWeaviate:
		store, err := NewProfessorWeaviate(cfg.WeaviateScheme, cfg.WeaviateHost, cfg.WeaviateClass, log)
		if err != nil {
			return nil, err
		}
		log.Info().Str("host", cfg.WeaviateHost).Str("class", cfg.WeaviateClass).Msg("using Weaviate")
		return store, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStore, cfg.VectorStore)
	}
}
