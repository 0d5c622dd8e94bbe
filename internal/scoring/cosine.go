package scoring

import "math"

// Cosine returns the cosine similarity between two embedding vectors,
// clamped to [0, 1]. Negative similarity is clamped to zero because the
// product treats closeness as unsigned. Zero-norm vectors and mismatched
// dimensions score 0: degenerate inputs, not failures.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	switch {
	case sim < 0:
		return 0
	case sim > 1:
		return 1
	}

	return sim
}
