package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{1, 2}, []float32{2, 4}), 1e-9)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, CosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)
}

func TestCosineSimilarityDegenerateInputs(t *testing.T) {
	assert.Equal(t, 0.0, CosineSimilarity(nil, nil))
	assert.Equal(t, 0.0, CosineSimilarity([]float32{1, 2}, []float32{1}))
	assert.Equal(t, 0.0, CosineSimilarity([]float32{0, 0}, []float32{1, 2}))
}

func TestAggregateSimilarities(t *testing.T) {
	query := []float32{1, 0}
	chunks := [][]float32{
		{1, 0},  // similarity 1
		{0, 1},  // similarity 0
		{-1, 0}, // similarity -1
	}

	stats := AggregateSimilarities(query, chunks)

	require.Len(t, stats.Scores, 3)
	assert.InDelta(t, 0.0, stats.Mean, 1e-9)
	assert.InDelta(t, 1.0, stats.Max, 1e-9)
}

func TestAggregateSimilaritiesEmpty(t *testing.T) {
	stats := AggregateSimilarities([]float32{1, 0}, nil)
	assert.Empty(t, stats.Scores)
	assert.Equal(t, 0.0, stats.Mean)
}

func TestRankIndicesStableTies(t *testing.T) {
	indices := RankIndices([]float64{0.5, 0.9, 0.5, 0.9})
	assert.Equal(t, []int{1, 3, 0, 2}, indices)
}
