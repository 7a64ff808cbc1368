package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/jonathan/jobmatch/internal/embeddings"
)

// -----------------------------------------------------------------------------
// Profile Methods
// -----------------------------------------------------------------------------

// UpsertProfile writes the profile text fields together with their freshly
// computed embeddings. The two always travel together so stored vectors can
// never go stale relative to their source text.
func (db *DB) UpsertProfile(ctx context.Context, p *Profile, set embeddings.ProfileEmbeddingSet) (uuid.UUID, error) {
	prefsJSON, err := json.Marshal(p.Preferences)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal preferences: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO user_profiles
		   (user_id, resume_text, skills, experience_summary, career_goals, preferences,
		    skills_embedding, experience_embedding, goals_embedding)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (user_id) DO UPDATE SET
		   resume_text = $2, skills = $3, experience_summary = $4, career_goals = $5,
		   preferences = $6, skills_embedding = $7, experience_embedding = $8,
		   goals_embedding = $9, updated_at = NOW()
		 RETURNING id`,
		p.UserID, p.ResumeText, p.Skills, p.ExperienceSummary, p.CareerGoals, prefsJSON,
		pgvector.NewVector(set.Skills),
		pgvector.NewVector(set.Experience),
		pgvector.NewVector(set.Goals),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to upsert profile: %w", err)
	}
	return id, nil
}

// GetProfileByUserID retrieves the profile owned by a user, including its
// stored embeddings. Returns (nil, nil) when the user has no profile yet.
func (db *DB) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	var p Profile
	var prefsJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, resume_text, skills, experience_summary, career_goals,
		        preferences, skills_embedding, experience_embedding, goals_embedding,
		        created_at, updated_at
		 FROM user_profiles WHERE user_id = $1`,
		userID,
	).Scan(&p.ID, &p.UserID, &p.ResumeText, &p.Skills, &p.ExperienceSummary, &p.CareerGoals,
		&prefsJSON, &p.SkillsEmbedding, &p.ExperienceEmbedding, &p.GoalsEmbedding,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if prefsJSON != nil {
		_ = json.Unmarshal(prefsJSON, &p.Preferences)
	}

	return &p, nil
}

// ListProfiles returns all profiles, used by maintenance commands that
// recompute embeddings.
func (db *DB) ListProfiles(ctx context.Context) ([]Profile, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, resume_text, skills, experience_summary, career_goals, created_at, updated_at
		 FROM user_profiles ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.ID, &p.UserID, &p.ResumeText, &p.Skills, &p.ExperienceSummary,
			&p.CareerGoals, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}
