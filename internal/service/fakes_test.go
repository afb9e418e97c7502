package service

import (
	"context"
	"errors"
	"sync"

	"github.com/ibrahim-kiri/rate-my-professor/internal/models"
)

type fakeEmbedder struct {
	dim   int
	err   error
	mu    sync.Mutex
	texts []string
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	f.texts = append(f.texts, text)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	vec := make([]float32, f.dim)
	for i := range vec {
		vec[i] = float32(i%7) / 7
	}
	return vec, nil
}

type fakeIndex struct {
	matches []models.Match
	err     error

	queries [][]float32
	ks      []int
	docs    []models.ProfessorDoc
}

func (f *fakeIndex) Query(_ context.Context, vec []float32, k int) ([]models.Match, error) {
	f.queries = append(f.queries, vec)
	f.ks = append(f.ks, k)
	return f.matches, f.err
}

func (f *fakeIndex) Upsert(_ context.Context, doc models.ProfessorDoc) error {
	if f.err != nil {
		return f.err
	}
	f.docs = append(f.docs, doc)
	return nil
}

func (f *fakeIndex) Ping(context.Context) error { return f.err }

type fakeLLM struct {
	reply   []string
	err     error
	system  string
	history []models.Message
}

func (f *fakeLLM) Stream(_ context.Context, system string, history []models.Message) (TokenStream, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.system = system
	f.history = history
	return &wordStream{words: append([]string(nil), f.reply...)}, nil
}

var errBoom = errors.New("boom")

var sampleMatches = []models.Match{
	{Professor: "Dr. Emily Johnson", Review: "Clear explanations of algorithms.", Subject: "Computer Science", Stars: 5, Score: 0.91},
	{Professor: "Prof. Michael Lee", Review: "Tough grader, great labs.", Subject: "Physics", Stars: 3.5, Score: 0.82},
}
