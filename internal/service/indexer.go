package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ibrahim-kiri/rate-my-professor/internal/models"
)

// Indexer embeds reviews and writes them into the professor index.
type Indexer struct {
	index      ProfessorIndex
	embedder   Embedder
	projection Projection
	log        zerolog.Logger
}

// NewIndexer wires an Indexer. Use the same Projection as the chat service.
func NewIndexer(index ProfessorIndex, embedder Embedder, projection Projection, log zerolog.Logger) *Indexer {
	return &Indexer{
		index:      index,
		embedder:   embedder,
		projection: projection,
		log:        log.With().Str("component", "indexer").Logger(),
	}
}

// Index upserts every review and returns how many were stored. Reviews
// without a professor name or text are skipped. The first embedding or
// storage failure aborts the run.
func (ix *Indexer) Index(ctx context.Context, reviews []models.Review) (int, error) {
	stored := 0
	for i, r := range reviews {
		if strings.TrimSpace(r.Professor) == "" || strings.TrimSpace(r.Review) == "" {
			ix.log.Warn().Int("position", i).Msg("skipping review without professor or text")
			continue
		}

		vec, err := ix.embedder.Embed(ctx, r.Review)
		if err != nil {
			return stored, fmt.Errorf("embed review for %s: %w", r.Professor, err)
		}
		vec, err = ix.projection.project(ix.log, vec)
		if err != nil {
			return stored, fmt.Errorf("project review for %s: %w", r.Professor, err)
		}

		if err := ix.index.Upsert(ctx, models.ProfessorDoc{Review: r, Embedding: vec}); err != nil {
			return stored, fmt.Errorf("upsert %s: %w", r.Professor, err)
		}
		stored++
		ix.log.Debug().Str("professor", r.Professor).Int("dimension", len(vec)).Msg("indexed review")
	}

	ix.log.Info().Int("stored", stored).Int("total", len(reviews)).Msg("indexing finished")
	return stored, nil
}
