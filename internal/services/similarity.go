package services

import (
	"math"
	"sort"
)

// CosineSimilarity returns the cosine of the angle between two embeddings,
// in [-1, 1]. Mismatched or zero-length vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// SimilarityStats aggregates per-chunk similarities for one document.
type SimilarityStats struct {
	Scores []float64
	Mean   float64
	Max    float64
}

// AggregateSimilarities computes chunk similarities against a single query
// embedding. The mean runs over every chunk, not a top-k slice, so documents
// padded with irrelevant content score lower even when one chunk matches well.
func AggregateSimilarities(queryEmbedding []float32, chunkEmbeddings [][]float32) SimilarityStats {
	stats := SimilarityStats{}
	if len(chunkEmbeddings) == 0 {
		return stats
	}

	var sum float64
	stats.Max = math.Inf(-1)
	for _, emb := range chunkEmbeddings {
		score := CosineSimilarity(queryEmbedding, emb)
		stats.Scores = append(stats.Scores, score)
		sum += score
		if score > stats.Max {
			stats.Max = score
		}
	}
	stats.Mean = sum / float64(len(stats.Scores))

	return stats
}

// RankIndices returns chunk indices ordered by similarity descending.
// Ties keep the original chunk order.
func RankIndices(scores []float64) []int {
	indices := make([]int, len(scores))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(i, j int) bool {
		return scores[indices[i]] > scores[indices[j]]
	})
	return indices
}
