package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ibrahim-kiri/rate-my-professor/internal/metrics"
	"github.com/ibrahim-kiri/rate-my-professor/internal/models"
	"github.com/ibrahim-kiri/rate-my-professor/internal/reduction"
)

// ErrInvalidConversation is returned when a chat history cannot be answered.
var ErrInvalidConversation = errors.New("invalid conversation")

// MaxTopK caps how many reviews one query may retrieve.
const MaxTopK = 100

// ---- Repository contract ---------------------------------------------------

// ProfessorIndex is the vector index of professor reviews.
type ProfessorIndex interface {
	// Query returns the k reviews whose embedding is closest to vec.
	Query(ctx context.Context, vec []float32, k int) ([]models.Match, error)
	// Upsert stores or replaces the review keyed by professor name.
	Upsert(ctx context.Context, doc models.ProfessorDoc) error
	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}

// ---- Service interface + implementation ------------------------------------

// ChatService runs the retrieval-augmented chat loop
// (embed → project → retrieve → prompt → stream).
type ChatService interface {
	// Stream answers the last user turn of history.
	Stream(ctx context.Context, history []models.Message) (TokenStream, error)
	// Search returns the k reviews nearest to query.
	Search(ctx context.Context, query string, k int) ([]models.Match, error)
}

// Projection controls how query and review vectors are fitted to the index.
type Projection struct {
	// Dimension is the index dimension; 0 leaves vectors untouched.
	Dimension int
	// Seed, when non-zero, makes every call use the same matrix so queries and
	// indexed reviews land in the same space. Zero draws a fresh matrix per call.
	Seed uint64
}

func (p Projection) source() reduction.Source {
	if p.Seed == 0 {
		return nil
	}
	return rand.New(rand.NewPCG(p.Seed, p.Seed))
}

// project fits vec to p.Dimension and records the outcome.
func (p Projection) project(log zerolog.Logger, vec []float32) ([]float32, error) {
	if p.Dimension <= 0 {
		return vec, nil
	}

	res, err := reduction.RandomProjection(vec, p.Dimension, reduction.WithSource(p.source()))
	if err != nil {
		return nil, fmt.Errorf("failed to project vector: %w", err)
	}
	if !res.Reduced {
		metrics.ProjectionTotal.WithLabelValues(metrics.OutcomeNoop).Inc()
		log.Warn().
			Int("source_dim", res.SourceDim).
			Int("target_dim", res.TargetDim).
			Bool("reduced", false).
			Msg(res.Reason)
		return res.Vector, nil
	}
	metrics.ProjectionTotal.WithLabelValues(metrics.OutcomeReduced).Inc()
	log.Debug().Int("source_dim", res.SourceDim).Int("target_dim", res.TargetDim).Msg("query vector reduced")
	return res.Vector, nil
}

type chatService struct {
	index      ProfessorIndex
	embedder   Embedder
	llm        LLM
	projection Projection
	topK       int
	log        zerolog.Logger
}

// NewChatService wires dependencies and returns ChatService.
func NewChatService(index ProfessorIndex, embedder Embedder, llm LLM, projection Projection, topK int, log zerolog.Logger) ChatService {
	if topK <= 0 {
		topK = 3
	}
	topK = min(topK, MaxTopK)
	return &chatService{
		index:      index,
		embedder:   embedder,
		llm:        llm,
		projection: projection,
		topK:       topK,
		log:        log.With().Str("component", "chat").Logger(),
	}
}

// Stream validates history, retrieves the nearest reviews for its last user
// turn, appends them to that turn and opens the completion stream.
func (s *chatService) Stream(ctx context.Context, history []models.Message) (TokenStream, error) {
	if err := ValidateConversation(history); err != nil {
		return nil, err
	}
	last := history[len(history)-1]

	matches, err := s.retrieve(ctx, last.Content, s.topK)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int("turns", len(history)).Int("matches", len(matches)).Msg("retrieved professors")

	stream, err := s.llm.Stream(ctx, SystemPrompt, augmentHistory(history, matches))
	if err != nil {
		metrics.ChatStreamErrorsTotal.WithLabelValues("complete").Inc()
		return nil, fmt.Errorf("failed to start completion: %w", err)
	}
	return stream, nil
}

// Search embeds query and calls the index directly.
func (s *chatService) Search(ctx context.Context, query string, k int) ([]models.Match, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query cannot be empty", ErrInvalidConversation)
	}
	if k <= 0 {
		k = s.topK
	}
	k = min(k, MaxTopK)

	matches, err := s.retrieve(ctx, query, k)
	if err != nil {
		return nil, err
	}
	if matches == nil {
		matches = []models.Match{}
	}
	return matches, nil
}

func (s *chatService) retrieve(ctx context.Context, text string, k int) ([]models.Match, error) {
	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		metrics.ChatStreamErrorsTotal.WithLabelValues("embed").Inc()
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	vec, err = s.projection.project(s.log, vec)
	if err != nil {
		metrics.ChatStreamErrorsTotal.WithLabelValues("project").Inc()
		return nil, err
	}

	matches, err := s.index.Query(ctx, vec, k)
	if err != nil {
		metrics.ChatStreamErrorsTotal.WithLabelValues("retrieve").Inc()
		return nil, fmt.Errorf("vector search failed: %w", err)
	}
	return matches, nil
}

// ValidateConversation checks that history ends with a non-blank user turn
// and only uses known roles.
func ValidateConversation(history []models.Message) error {
	if len(history) == 0 {
		return fmt.Errorf("%w: no messages", ErrInvalidConversation)
	}
	for i, m := range history {
		switch m.Role {
		case models.RoleSystem, models.RoleUser, models.RoleAssistant:
		default:
			return fmt.Errorf("%w: message %d has unknown role %q", ErrInvalidConversation, i, m.Role)
		}
	}
	last := history[len(history)-1]
	if last.Role != models.RoleUser {
		return fmt.Errorf("%w: last message must come from the user", ErrInvalidConversation)
	}
	if strings.TrimSpace(last.Content) == "" {
		return fmt.Errorf("%w: last message is empty", ErrInvalidConversation)
	}
	return nil
}
