package matching

import "math"

// CosineSimilarity computes dot(a,b) / (|a|*|b|) for two vectors of equal
// length, clamped into [0, 1]. Negative similarity is treated as "no match",
// not "anti-match", so every downstream score reads directly as a percentage.
//
// A zero-length vector or a zero-norm vector (the sentinel for empty source
// text) yields 0.0; this function never divides by zero. Callers are
// responsible for rejecting mismatched dimensions before calling.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	var dot, normA, normB float64
	for i := range a {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	normProduct := math.Sqrt(normA) * math.Sqrt(normB)
	if normProduct == 0 {
		return 0.0
	}

	similarity := dot / normProduct
	return math.Max(0.0, math.Min(1.0, similarity))
}
