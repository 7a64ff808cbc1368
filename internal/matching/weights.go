package matching

import (
	"fmt"
	"math"
)

const weightSumTolerance = 1e-9

// Weights maps the three compatibility components to their share of the
// overall score. Validated once at construction; immutable afterward.
type Weights struct {
	Skills     float64
	Experience float64
	Goals      float64
}

// DefaultWeights returns the standard weighting: skills 40%, experience 35%,
// career goals 25%.
func DefaultWeights() Weights {
	return Weights{Skills: 0.40, Experience: 0.35, Goals: 0.25}
}

// NewWeights validates that all weights are non-negative and sum to 1.0.
func NewWeights(skills, experience, goals float64) (Weights, error) {
	if skills < 0 || experience < 0 || goals < 0 {
		return Weights{}, fmt.Errorf("weights must be non-negative, got skills=%v experience=%v goals=%v",
			skills, experience, goals)
	}
	sum := skills + experience + goals
	if math.Abs(sum-1.0) > weightSumTolerance {
		return Weights{}, fmt.Errorf("weights must sum to 1.0, got %v", sum)
	}
	return Weights{Skills: skills, Experience: experience, Goals: goals}, nil
}
