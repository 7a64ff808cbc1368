package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/jonathan/jobmatch/internal/embeddings"
)

// JobPosting represents one job record. Embeddings follow the same lifecycle
// rule as profiles: rewritten whenever description or requirements change.
type JobPosting struct {
	ID              uuid.UUID  `json:"id"`
	ExternalID      string     `json:"external_id,omitempty"`
	Platform        string     `json:"platform"`
	Title           string     `json:"title"`
	Company         string     `json:"company"`
	Location        string     `json:"location,omitempty"`
	SalaryMin       *int       `json:"salary_min,omitempty"`
	SalaryMax       *int       `json:"salary_max,omitempty"`
	Description     string     `json:"description"`
	Requirements    string     `json:"requirements"`
	URL             string     `json:"url,omitempty"`
	RequiredSkills  []string   `json:"required_skills,omitempty"`
	PreferredSkills []string   `json:"preferred_skills,omitempty"`
	ExperienceYears *int       `json:"experience_years,omitempty"`
	IsActive        bool       `json:"is_active"`
	PostedAt        *time.Time `json:"posted_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`

	DescriptionEmbedding  pgvector.Vector `json:"-"`
	RequirementsEmbedding pgvector.Vector `json:"-"`
}

// EmbeddingSet returns the stored vectors as a named-field set for the
// matching engine.
func (p *JobPosting) EmbeddingSet() embeddings.JobEmbeddingSet {
	return embeddings.JobEmbeddingSet{
		Description:  p.DescriptionEmbedding.Slice(),
		Requirements: p.RequirementsEmbedding.Slice(),
	}
}
