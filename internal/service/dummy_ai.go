package service

import (
	"context"
	"hash/fnv"
	"io"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/ibrahim-kiri/rate-my-professor/internal/models"
)

// DummyEmbedder returns deterministic pseudo-embeddings for offline runs.
// Equal texts map to equal unit vectors.
type DummyEmbedder struct {
	dim int
}

// NewDummyEmbedder returns an embedder of the given dimension (1536 when dim <= 0,
// the size of text-embedding-3-small).
func NewDummyEmbedder(dim int) *DummyEmbedder {
	if dim <= 0 {
		dim = 1536
	}
	return &DummyEmbedder{dim: dim}
}

func (d *DummyEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()
	r := rand.New(rand.NewPCG(seed, seed>>1))

	vec := make([]float32, d.dim)
	var norm float64
	for i := range vec {
		v := r.NormFloat64()
		vec[i] = float32(v)
		norm += v * v
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec, nil
}

// DummyLLM answers by listing the professors injected into the last user turn.
type DummyLLM struct{}

func NewDummyLLM() DummyLLM { return DummyLLM{} }

func (DummyLLM) Stream(_ context.Context, _ string, history []models.Message) (TokenStream, error) {
	var names []string
	if n := len(history); n > 0 {
		for _, line := range strings.Split(history[n-1].Content, "\n") {
			line = strings.TrimSpace(line)
			if name, ok := strings.CutPrefix(line, "Professor: "); ok {
				names = append(names, name)
			}
		}
	}

	reply := "<placeholder answer> I could not find a matching professor."
	if len(names) > 0 {
		reply = "<placeholder answer> You might like: " + strings.Join(names, ", ") + "."
	}
	return &wordStream{words: strings.SplitAfter(reply, " ")}, nil
}

// wordStream replays a fixed reply one word at a time.
type wordStream struct {
	words []string
}

func (s *wordStream) Next() (string, error) {
	if len(s.words) == 0 {
		return "", io.EOF
	}
	w := s.words[0]
	s.words = s.words[1:]
	return w, nil
}

func (s *wordStream) Close() error { return nil }
