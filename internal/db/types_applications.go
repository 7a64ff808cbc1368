package db

import (
	"time"

	"github.com/google/uuid"
)

// Application statuses, in rough lifecycle order.
const (
	StatusDraft     = "draft"
	StatusSubmitted = "submitted"
	StatusInterview = "interview"
	StatusRejected  = "rejected"
	StatusAccepted  = "accepted"
)

// validStatusTransitions lists the legal next statuses per current status.
var validStatusTransitions = map[string][]string{
	StatusDraft:     {StatusSubmitted},
	StatusSubmitted: {StatusInterview, StatusRejected},
	StatusInterview: {StatusAccepted, StatusRejected},
}

// ValidTransition reports whether an application may move from one status to
// another. Terminal statuses (rejected, accepted) have no exits.
func ValidTransition(from, to string) bool {
	for _, next := range validStatusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Application represents one user's application to one job. The compatibility
// fields are a snapshot taken when the application was created; the engine's
// live output remains the source of truth.
type Application struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
	JobID  uuid.UUID `json:"job_id"`
	Status string    `json:"status"`

	TailoredResume string `json:"tailored_resume,omitempty"`
	CoverLetter    string `json:"cover_letter,omitempty"`

	CompatibilityScore   *float64       `json:"compatibility_score,omitempty"`
	SkillsMatchScore     *float64       `json:"skills_match_score,omitempty"`
	ExperienceMatchScore *float64       `json:"experience_match_score,omitempty"`
	GoalsAlignmentScore  *float64       `json:"goals_alignment_score,omitempty"`
	AIRecommendations    map[string]any `json:"ai_recommendations,omitempty"`

	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}
