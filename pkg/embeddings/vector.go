// Package embeddings provides vector utilities shared by embedding providers and scoring.
package embeddings

import "math"

// NormalizeL2 scales a raw embedding vector to unit length, in place.
// All-zero vectors are left unchanged (there is no direction to normalize).
func NormalizeL2(vector []float32) {
	var sumSquares float64

	for _, v := range vector {
		sumSquares += float64(v) * float64(v)
	}

	if sumSquares == 0 {
		return
	}

	magnitude := math.Sqrt(sumSquares)

	for i := range vector {
		vector[i] = float32(float64(vector[i]) / magnitude)
	}
}

// Cosine returns the cosine similarity of a and b: dot(a,b) / (|a| * |b|).
// It returns 0 when either vector is empty, zero-length, or the dimensions
// differ. That is an explicit edge-case policy (missing embeddings disable the
// similarity term), not an error.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
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
