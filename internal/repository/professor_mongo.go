package repository

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ibrahim-kiri/rate-my-professor/internal/models"
)

// ProfessorMongo stores professor reviews in one collection and searches them
// through an Atlas Vector Search index.
type ProfessorMongo struct {
	client    *mongo.Client
	col       *mongo.Collection
	vectorIdx string // name of Atlas Vector Search index
	log       zerolog.Logger
}

// NewProfessorMongo wires the collection.
//
// Expected schema:
//
//	professors
//	  { _id: "Dr. Jane Doe", review: string, subject: string, stars: number, embedding: []float32 }
//
// The vector index must cover the "embedding" path with the dimension the
// query vectors have after projection.
func NewProfessorMongo(client *mongo.Client, db, collection, vectorIndex string, log zerolog.Logger) *ProfessorMongo {
	return &ProfessorMongo{
		client:    client,
		col:       client.Database(db).Collection(collection),
		vectorIdx: vectorIndex,
		log:       log.With().Str("component", "professor_mongo").Logger(),
	}
}

// -------------------------- public API --------------------------------------

// Query performs a K‑NN search across review embeddings.
func (r *ProfessorMongo) Query(ctx context.Context, vec []float32, k int) ([]models.Match, error) {
	cur, err := r.col.Aggregate(ctx, vectorSearchPipeline(r.vectorIdx, vec, k))
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}
	defer cur.Close(ctx)

	var matches []models.Match
	if err := cur.All(ctx, &matches); err != nil {
		return nil, fmt.Errorf("decode matches: %w", err)
	}
	r.log.Debug().Int("k", k).Int("returned", len(matches)).Msg("vector search")
	return matches, nil
}

// Upsert inserts or replaces the review with the same professor name.
func (r *ProfessorMongo) Upsert(ctx context.Context, doc models.ProfessorDoc) error {
	_, err := r.col.ReplaceOne(
		ctx,
		bson.M{"_id": doc.Professor},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("replace %s: %w", doc.Professor, err)
	}
	return nil
}

// Ping checks the primary.
func (r *ProfessorMongo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, nil)
}

// Close disconnects the client.
func (r *ProfessorMongo) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// vectorSearchPipeline builds the $vectorSearch aggregation.
func vectorSearchPipeline(index string, vec []float32, k int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$vectorSearch", Value: bson.D{
			{Key: "index", Value: index},
			{Key: "queryVector", Value: vec},
			{Key: "path", Value: "embedding"},
			{Key: "numCandidates", Value: k * 10},
			{Key: "limit", Value: k},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "review", Value: 1},
			{Key: "subject", Value: 1},
			{Key: "stars", Value: 1},
			{Key: "score", Value: bson.D{{Key: "$meta", Value: "vectorSearchScore"}}},
		}}},
	}
}
