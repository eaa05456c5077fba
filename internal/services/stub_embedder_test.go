package services

import (
	"context"
	"errors"
	"hash/fnv"
	"strings"
)

// stubEmbedder returns the same vector for every input, making every cosine
// similarity 1.0. Useful when a test cares about rule behavior rather than
// ranking.
type stubEmbedder struct {
	calls int
}

func (s *stubEmbedder) GenerateEmbedding(_ context.Context, _ string) ([]float32, error) {
	s.calls++
	return []float32{1, 0, 0, 0}, nil
}

// bagEmbedder hashes words into a fixed number of buckets so that texts
// sharing vocabulary get higher cosine similarity. Deterministic for
// identical input.
type bagEmbedder struct{}

func (bagEmbedder) GenerateEmbedding(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, 64)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(word))
		vec[h.Sum32()%64]++
	}
	return vec, nil
}

type failingEmbedder struct{}

func (failingEmbedder) GenerateEmbedding(_ context.Context, _ string) ([]float32, error) {
	return nil, errors.New("embedding backend unavailable")
}
