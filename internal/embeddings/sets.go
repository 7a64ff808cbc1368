package embeddings

// ProfileEmbeddingSet holds the three vectors derived from a candidate
// profile's text fields. Downstream code matches vectors by field name, never
// by position.
type ProfileEmbeddingSet struct {
	Skills     []float32
	Experience []float32
	Goals      []float32
}

// JobEmbeddingSet holds the two vectors derived from a job posting's text
// fields.
type JobEmbeddingSet struct {
	Description  []float32
	Requirements []float32
}
