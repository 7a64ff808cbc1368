package matching

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobmatch/internal/embeddings"
)

// angled returns a unit 2-vector whose cosine similarity with [1, 0] is c.
func angled(c float64) []float32 {
	s := math.Sqrt(1 - c*c)
	return []float32{float32(c), float32(s)}
}

func basisProfile() embeddings.ProfileEmbeddingSet {
	return embeddings.ProfileEmbeddingSet{
		Skills:     []float32{1, 0},
		Experience: []float32{1, 0},
		Goals:      []float32{1, 0},
	}
}

type fakeSupplier struct {
	candidates []Candidate
	err        error
	calls      int
	lastLimit  int
}

func (f *fakeSupplier) CompatibleJobs(_ context.Context, _ embeddings.ProfileEmbeddingSet, limit int) ([]Candidate, error) {
	f.calls++
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.candidates, nil
}

func TestScore_IdenticalVectorsScoreOne(t *testing.T) {
	engine := NewEngine(DefaultWeights(), nil, nil)

	job := embeddings.JobEmbeddingSet{
		Description:  []float32{1, 0, 0},
		Requirements: []float32{1, 0, 0},
	}
	profile := embeddings.ProfileEmbeddingSet{
		Skills:     []float32{1, 0, 0},
		Experience: []float32{1, 0, 0},
		Goals:      []float32{1, 0, 0},
	}

	result, err := engine.Score(job, profile)

	require.NoError(t, err)
	assert.InDelta(t, 1.0, result.SkillsMatch, 1e-6)
	assert.InDelta(t, 1.0, result.ExperienceMatch, 1e-6)
	assert.InDelta(t, 1.0, result.GoalsAlignment, 1e-6)
	assert.InDelta(t, 1.0, result.OverallScore, 1e-6)
}

func TestScore_OrthogonalExperience(t *testing.T) {
	engine := NewEngine(DefaultWeights(), nil, nil)

	job := embeddings.JobEmbeddingSet{
		Description:  []float32{1, 0, 0},
		Requirements: []float32{0, 1, 0},
	}
	profile := embeddings.ProfileEmbeddingSet{
		Skills:     []float32{1, 0, 0},
		Experience: []float32{1, 0, 0}, // orthogonal to requirements
		Goals:      []float32{1, 0, 0},
	}

	result, err := engine.Score(job, profile)

	require.NoError(t, err)
	assert.InDelta(t, 0.0, result.ExperienceMatch, 1e-9)
}

func TestScore_WeightedSum(t *testing.T) {
	// skills 1.0, experience 0.0, goals 1.0 with the default weights:
	// 0.4*1.0 + 0.35*0.0 + 0.25*1.0 = 0.65.
	engine := NewEngine(DefaultWeights(), nil, nil)

	job := embeddings.JobEmbeddingSet{
		Description:  []float32{1, 0},
		Requirements: []float32{0, 1},
	}
	profile := embeddings.ProfileEmbeddingSet{
		Skills:     []float32{1, 0},
		Experience: []float32{1, 0},
		Goals:      []float32{1, 0},
	}

	result, err := engine.Score(job, profile)

	require.NoError(t, err)
	assert.InDelta(t, 1.0, result.SkillsMatch, 1e-6)
	assert.InDelta(t, 0.0, result.ExperienceMatch, 1e-9)
	assert.InDelta(t, 1.0, result.GoalsAlignment, 1e-6)
	assert.InDelta(t, 0.65, result.OverallScore, 1e-6)
}

func TestScore_PairingIsAsymmetric(t *testing.T) {
	// Goals align with the description, not the requirements: a profile whose
	// goals match only the requirements vector must get zero goals alignment.
	engine := NewEngine(DefaultWeights(), nil, nil)

	job := embeddings.JobEmbeddingSet{
		Description:  []float32{1, 0},
		Requirements: []float32{0, 1},
	}
	profile := embeddings.ProfileEmbeddingSet{
		Skills:     []float32{0, 1}, // matches requirements, paired with description
		Experience: []float32{0, 1}, // matches requirements, paired with requirements
		Goals:      []float32{0, 1}, // matches requirements, paired with description
	}

	result, err := engine.Score(job, profile)

	require.NoError(t, err)
	assert.InDelta(t, 0.0, result.SkillsMatch, 1e-9)
	assert.InDelta(t, 1.0, result.ExperienceMatch, 1e-6)
	assert.InDelta(t, 0.0, result.GoalsAlignment, 1e-9)
}

func TestScore_ZeroVectorsAreNoSignal(t *testing.T) {
	engine := NewEngine(DefaultWeights(), nil, nil)

	job := embeddings.JobEmbeddingSet{
		Description:  make([]float32, 4), // all-zero sentinel
		Requirements: []float32{1, 0, 0, 0},
	}
	profile := embeddings.ProfileEmbeddingSet{
		Skills:     []float32{1, 0, 0, 0},
		Experience: []float32{1, 0, 0, 0},
		Goals:      []float32{1, 0, 0, 0},
	}

	result, err := engine.Score(job, profile)

	require.NoError(t, err)
	assert.Equal(t, 0.0, result.SkillsMatch)
	assert.Equal(t, 0.0, result.GoalsAlignment)
	assert.InDelta(t, 1.0, result.ExperienceMatch, 1e-6)
}

func TestScore_DimensionMismatch(t *testing.T) {
	engine := NewEngine(DefaultWeights(), nil, nil)

	job := embeddings.JobEmbeddingSet{
		Description:  []float32{1, 0, 0},
		Requirements: []float32{1, 0, 0},
	}
	profile := embeddings.ProfileEmbeddingSet{
		Skills:     []float32{1, 0}, // wrong dimension
		Experience: []float32{1, 0, 0},
		Goals:      []float32{1, 0, 0},
	}

	_, err := engine.Score(job, profile)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestScore_OverallAlwaysInRange(t *testing.T) {
	engine := NewEngine(DefaultWeights(), nil, nil)

	for _, c := range []float64{0.0, 0.1, 0.33, 0.5, 0.77, 0.99, 1.0} {
		job := embeddings.JobEmbeddingSet{
			Description:  angled(c),
			Requirements: angled(c),
		}
		result, err := engine.Score(job, basisProfile())

		require.NoError(t, err)
		assert.GreaterOrEqual(t, result.OverallScore, 0.0)
		assert.LessOrEqual(t, result.OverallScore, 1.0+1e-9)
	}
}

func candidateWithScore(title string, c float64) Candidate {
	// All three components equal c, so the overall score is c as well.
	return Candidate{
		Job: JobRef{ID: uuid.New(), Title: title, Company: "Acme"},
		Embeddings: embeddings.JobEmbeddingSet{
			Description:  angled(c),
			Requirements: angled(c),
		},
		Score: c,
	}
}

func TestFindCompatible_FiltersBelowMinScore(t *testing.T) {
	engine := NewEngine(DefaultWeights(), nil, nil)
	supplier := &fakeSupplier{candidates: []Candidate{
		candidateWithScore("strong", 0.9),
		candidateWithScore("decent", 0.72),
		candidateWithScore("weak", 0.5),
	}}

	matches, err := engine.FindCompatible(context.Background(), basisProfile(), supplier, 20, 0.7)

	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "strong", matches[0].Job.Title)
	assert.Equal(t, "decent", matches[1].Job.Title)
	assert.Equal(t, 20, supplier.lastLimit)
}

func TestFindCompatible_SortedDescending(t *testing.T) {
	engine := NewEngine(DefaultWeights(), nil, nil)
	supplier := &fakeSupplier{candidates: []Candidate{
		candidateWithScore("mid", 0.6),
		candidateWithScore("best", 0.95),
		candidateWithScore("low", 0.3),
	}}

	matches, err := engine.FindCompatible(context.Background(), basisProfile(), supplier, 10, 0.0)

	require.NoError(t, err)
	require.Len(t, matches, 3)
	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].OverallScore, matches[i].OverallScore)
	}
}

func TestFindCompatible_BreakdownMatchesOverall(t *testing.T) {
	engine := NewEngine(DefaultWeights(), nil, nil)
	supplier := &fakeSupplier{candidates: []Candidate{candidateWithScore("a", 0.8)}}

	matches, err := engine.FindCompatible(context.Background(), basisProfile(), supplier, 5, 0.0)

	require.NoError(t, err)
	require.Len(t, matches, 1)
	m := matches[0]
	assert.Equal(t, m.Breakdown.OverallScore, m.OverallScore)
	expected := m.Breakdown.SkillsMatch*0.40 + m.Breakdown.ExperienceMatch*0.35 + m.Breakdown.GoalsAlignment*0.25
	assert.InDelta(t, expected, m.OverallScore, 1e-9)
}

func TestFindCompatible_EmptyResult(t *testing.T) {
	engine := NewEngine(DefaultWeights(), nil, nil)
	supplier := &fakeSupplier{candidates: []Candidate{candidateWithScore("weak", 0.2)}}

	matches, err := engine.FindCompatible(context.Background(), basisProfile(), supplier, 10, 0.9)

	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFindCompatible_RejectsInvalidLimit(t *testing.T) {
	engine := NewEngine(DefaultWeights(), nil, nil)
	supplier := &fakeSupplier{}

	for _, limit := range []int{0, -1} {
		_, err := engine.FindCompatible(context.Background(), basisProfile(), supplier, limit, 0.5)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	}
	assert.Zero(t, supplier.calls, "supplier must not be queried for invalid input")
}

func TestFindCompatible_RejectsOutOfRangeMinScore(t *testing.T) {
	engine := NewEngine(DefaultWeights(), nil, nil)
	supplier := &fakeSupplier{}

	// 70 instead of 0.7 is the classic unit mistake; it must not be clamped.
	for _, minScore := range []float64{-0.1, 1.01, 70} {
		_, err := engine.FindCompatible(context.Background(), basisProfile(), supplier, 10, minScore)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	}
	assert.Zero(t, supplier.calls)
}

func TestFindCompatible_SupplierErrorPropagates(t *testing.T) {
	engine := NewEngine(DefaultWeights(), nil, nil)
	queryErr := fmt.Errorf("connection refused")
	supplier := &fakeSupplier{err: queryErr}

	_, err := engine.FindCompatible(context.Background(), basisProfile(), supplier, 10, 0.5)

	require.Error(t, err)
	assert.ErrorIs(t, err, queryErr)
	assert.Equal(t, 1, supplier.calls, "no retry around datastore failures")
}
