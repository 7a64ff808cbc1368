package types

import (
	"time"

	"github.com/google/uuid"
)

// ProfileRequest replaces the text content of a user's profile. The stored
// embeddings are recomputed from these fields on every write.
type ProfileRequest struct {
	ResumeText        string         `json:"resume_text,omitempty"`
	Skills            string         `json:"skills" validate:"required"`
	ExperienceSummary string         `json:"experience_summary" validate:"required"`
	CareerGoals       string         `json:"career_goals" validate:"required"`
	Preferences       map[string]any `json:"preferences,omitempty"`
}

// JobPostingRequest creates or replaces a job posting. When HTML is set it
// is reduced to text and used as the description.
type JobPostingRequest struct {
	ExternalID   string     `json:"external_id,omitempty"`
	Platform     string     `json:"platform,omitempty"`
	Title        string     `json:"title" validate:"required,min=1"`
	Company      string     `json:"company" validate:"required,min=1"`
	Location     string     `json:"location,omitempty"`
	SalaryMin    *int       `json:"salary_min,omitempty"`
	SalaryMax    *int       `json:"salary_max,omitempty"`
	Description  string     `json:"description,omitempty"`
	Requirements string     `json:"requirements,omitempty"`
	HTML         string     `json:"html,omitempty"`
	URL          string     `json:"url,omitempty"`
	PostedAt     *time.Time `json:"posted_at,omitempty"`
}

// CreateApplicationRequest starts a draft application for a job.
type CreateApplicationRequest struct {
	JobID         uuid.UUID `json:"job_id" validate:"required"`
	SnapshotScore bool      `json:"snapshot_score,omitempty"`
}

// UpdateApplicationStatusRequest moves an application through its lifecycle.
type UpdateApplicationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft submitted interview rejected accepted"`
}

// Validate checks required fields and formats.
func (r *ProfileRequest) Validate() error { return validate.Struct(r) }

// Validate checks required fields and formats.
func (r *JobPostingRequest) Validate() error { return validate.Struct(r) }

// Validate checks required fields and formats.
func (r *CreateApplicationRequest) Validate() error { return validate.Struct(r) }

// Validate checks required fields and formats.
func (r *UpdateApplicationStatusRequest) Validate() error { return validate.Struct(r) }
