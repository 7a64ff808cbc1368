// Package matching scores job/candidate compatibility from precomputed
// embeddings and performs ranked, threshold-filtered retrieval of compatible
// jobs for a profile.
package matching

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/jobmatch/internal/embeddings"
	"github.com/jonathan/jobmatch/internal/metrics"
)

// Result is the per-pair breakdown plus the weighted overall score, each in
// [0, 1]. It is derived on demand and never persisted by the engine.
type Result struct {
	OverallScore    float64 `json:"overall_score"`
	SkillsMatch     float64 `json:"skills_match"`
	ExperienceMatch float64 `json:"experience_match"`
	GoalsAlignment  float64 `json:"goals_alignment"`
}

// JobRef identifies a job posting in match output without dragging the full
// record through the engine.
type JobRef struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Company  string    `json:"company"`
	Location string    `json:"location,omitempty"`
}

// Candidate is one ranked row from a CandidateSupplier: a job, its stored
// embeddings, and the supplier's preliminary weighted score.
type Candidate struct {
	Job        JobRef
	Embeddings embeddings.JobEmbeddingSet
	Score      float64
}

// Match is one entry of FindCompatible output.
type Match struct {
	Job          JobRef  `json:"job"`
	OverallScore float64 `json:"overall_score"`
	Breakdown    Result  `json:"breakdown"`
}

// CandidateSupplier yields active jobs ranked descending by the same weighted
// formula the engine scores with, capped at limit rows. Typically backed by a
// datastore vector-similarity query; retry policy for that query belongs to
// the datastore client, not to this package.
type CandidateSupplier interface {
	CompatibleJobs(ctx context.Context, profile embeddings.ProfileEmbeddingSet, limit int) ([]Candidate, error)
}

// Engine computes weighted multi-component compatibility scores. It holds no
// mutable state beyond its Weights, so concurrent use needs no locking.
type Engine struct {
	weights Weights
	logger  *zap.Logger
	metrics *metrics.Registry
}

// NewEngine creates an engine with the given weights.
func NewEngine(weights Weights, logger *zap.Logger, reg *metrics.Registry) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{weights: weights, logger: logger, metrics: reg}
}

// Weights returns the engine's immutable weight configuration.
func (e *Engine) Weights() Weights {
	return e.weights
}

// Score computes the compatibility breakdown for one job against one profile.
//
// The pairing is fixed and asymmetric: job description against profile skills
// and against career goals, job requirements against experience. Descriptions
// carry the qualitative skill signal, requirements the quantitative
// experience signal; reordering the pairing changes every stored ranking.
func (e *Engine) Score(job embeddings.JobEmbeddingSet, profile embeddings.ProfileEmbeddingSet) (Result, error) {
	pairs := []struct {
		name string
		a, b []float32
	}{
		{"skills", job.Description, profile.Skills},
		{"experience", job.Requirements, profile.Experience},
		{"goals", job.Description, profile.Goals},
	}
	for _, p := range pairs {
		if len(p.a) > 0 && len(p.b) > 0 && len(p.a) != len(p.b) {
			return Result{}, fmt.Errorf("%s pair: %d vs %d: %w", p.name, len(p.a), len(p.b), ErrDimensionMismatch)
		}
	}

	skills := CosineSimilarity(job.Description, profile.Skills)
	experience := CosineSimilarity(job.Requirements, profile.Experience)
	goals := CosineSimilarity(job.Description, profile.Goals)

	result := Result{
		SkillsMatch:     skills,
		ExperienceMatch: experience,
		GoalsAlignment:  goals,
		OverallScore: skills*e.weights.Skills +
			experience*e.weights.Experience +
			goals*e.weights.Goals,
	}

	e.metrics.AddScoresComputed(1)
	return result, nil
}

// FindCompatible retrieves up to limit ranked candidates from the supplier,
// recomputes each breakdown with Score so the returned component figures can
// never drift from the ranking formula, and drops everything below minScore.
// Output is sorted descending by overall score; ties keep supplier order.
func (e *Engine) FindCompatible(
	ctx context.Context,
	profile embeddings.ProfileEmbeddingSet,
	supplier CandidateSupplier,
	limit int,
	minScore float64,
) ([]Match, error) {
	if limit < 1 {
		return nil, fmt.Errorf("limit must be a positive integer, got %d: %w", limit, ErrInvalidArgument)
	}
	if minScore < 0.0 || minScore > 1.0 {
		return nil, fmt.Errorf("min score must be in [0.0, 1.0], got %v: %w", minScore, ErrInvalidArgument)
	}

	candidates, err := supplier.CompatibleJobs(ctx, profile, limit)
	if err != nil {
		return nil, fmt.Errorf("candidate query failed: %w", err)
	}

	matches := make([]Match, 0, len(candidates))
	for _, candidate := range candidates {
		breakdown, err := e.Score(candidate.Embeddings, profile)
		if err != nil {
			return nil, fmt.Errorf("scoring job %s: %w", candidate.Job.ID, err)
		}
		if breakdown.OverallScore < minScore {
			continue
		}
		matches = append(matches, Match{
			Job:          candidate.Job,
			OverallScore: breakdown.OverallScore,
			Breakdown:    breakdown,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].OverallScore > matches[j].OverallScore
	})

	e.logger.Debug("compatible jobs ranked",
		zap.Int("candidates", len(candidates)),
		zap.Int("matches", len(matches)),
		zap.Float64("min_score", minScore))
	return matches, nil
}
