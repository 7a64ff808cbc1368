package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/jonathan/jobmatch/internal/embeddings"
)

// Profile represents a candidate profile. The three embedding columns are
// recomputed together with their source text fields and never mutated
// independently of them.
type Profile struct {
	ID                uuid.UUID      `json:"id"`
	UserID            uuid.UUID      `json:"user_id"`
	ResumeText        string         `json:"resume_text,omitempty"`
	Skills            string         `json:"skills"`
	ExperienceSummary string         `json:"experience_summary"`
	CareerGoals       string         `json:"career_goals"`
	Preferences       map[string]any `json:"preferences,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         *time.Time     `json:"updated_at,omitempty"`

	SkillsEmbedding     pgvector.Vector `json:"-"`
	ExperienceEmbedding pgvector.Vector `json:"-"`
	GoalsEmbedding      pgvector.Vector `json:"-"`
}

// EmbeddingSet returns the stored vectors as a named-field set for the
// matching engine.
func (p *Profile) EmbeddingSet() embeddings.ProfileEmbeddingSet {
	return embeddings.ProfileEmbeddingSet{
		Skills:     p.SkillsEmbedding.Slice(),
		Experience: p.ExperienceEmbedding.Slice(),
		Goals:      p.GoalsEmbedding.Slice(),
	}
}
