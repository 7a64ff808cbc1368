package db

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"github.com/jonathan/jobmatch/internal/embeddings"
	"github.com/jonathan/jobmatch/internal/matching"
)

// CandidateSupplier adapts the job_postings table to the matching engine's
// supplier contract, pushing the weighted similarity ranking down into a
// single pgvector query.
type CandidateSupplier struct {
	db      *DB
	weights matching.Weights
}

// NewCandidateSupplier creates a supplier ranking with the given weights.
// The weights must be the same ones the engine scores with, or the ranking
// and the recomputed breakdowns would drift apart.
func NewCandidateSupplier(db *DB, weights matching.Weights) *CandidateSupplier {
	return &CandidateSupplier{db: db, weights: weights}
}

// CompatibleJobs runs the ranked vector query over active postings. The
// pairing mirrors the engine exactly: description against skills and goals,
// requirements against experience. `<=>` is pgvector's cosine distance, so
// `1 - distance` is cosine similarity.
func (s *CandidateSupplier) CompatibleJobs(
	ctx context.Context,
	profile embeddings.ProfileEmbeddingSet,
	limit int,
) ([]matching.Candidate, error) {
	rows, err := s.db.pool.Query(ctx,
		`SELECT id, title, company, location,
		        description_embedding, requirements_embedding,
		        ((1 - (description_embedding <=> $1)) * $4 +
		         (1 - (requirements_embedding <=> $2)) * $5 +
		         (1 - (description_embedding <=> $3)) * $6) AS compatibility_score
		 FROM job_postings
		 WHERE is_active
		   AND description_embedding IS NOT NULL
		   AND requirements_embedding IS NOT NULL
		 ORDER BY compatibility_score DESC
		 LIMIT $7`,
		pgvector.NewVector(profile.Skills),
		pgvector.NewVector(profile.Experience),
		pgvector.NewVector(profile.Goals),
		s.weights.Skills, s.weights.Experience, s.weights.Goals,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}
	defer rows.Close()

	var candidates []matching.Candidate
	for rows.Next() {
		var c matching.Candidate
		var description, requirements pgvector.Vector
		if err := rows.Scan(&c.Job.ID, &c.Job.Title, &c.Job.Company, &c.Job.Location,
			&description, &requirements, &c.Score); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		c.Embeddings = embeddings.JobEmbeddingSet{
			Description:  description.Slice(),
			Requirements: requirements.Slice(),
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}
