package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// -----------------------------------------------------------------------------
// Application Methods
// -----------------------------------------------------------------------------

const applicationColumns = `id, user_id, job_id, status, tailored_resume, cover_letter,
	compatibility_score, skills_match_score, experience_match_score, goals_alignment_score,
	ai_recommendations, submitted_at, created_at, updated_at`

// CreateApplication inserts a draft application and returns its ID.
func (db *DB) CreateApplication(ctx context.Context, a *Application) (uuid.UUID, error) {
	recsJSON, err := json.Marshal(a.AIRecommendations)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO applications
		   (user_id, job_id, status, tailored_resume, cover_letter,
		    compatibility_score, skills_match_score, experience_match_score,
		    goals_alignment_score, ai_recommendations)
		 VALUES ($1, $2, 'draft', $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		a.UserID, a.JobID, a.TailoredResume, a.CoverLetter,
		a.CompatibilityScore, a.SkillsMatchScore, a.ExperienceMatchScore,
		a.GoalsAlignmentScore, recsJSON,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create application: %w", err)
	}
	return id, nil
}

// GetApplication retrieves an application by ID. Returns (nil, nil) when not
// found.
func (db *DB) GetApplication(ctx context.Context, id uuid.UUID) (*Application, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	return scanApplication(row)
}

// UpdateApplicationStatus moves an application to a new status. The
// submitted_at timestamp is set on the draft -> submitted transition.
func (db *DB) UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status string) error {
	var err error
	if status == StatusSubmitted {
		_, err = db.pool.Exec(ctx,
			`UPDATE applications SET status = $1, submitted_at = NOW(), updated_at = NOW() WHERE id = $2`,
			status, id)
	} else {
		_, err = db.pool.Exec(ctx,
			`UPDATE applications SET status = $1, updated_at = NOW() WHERE id = $2`,
			status, id)
	}
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}
	return nil
}

// UpdateApplicationCoverLetter stores a drafted cover letter.
func (db *DB) UpdateApplicationCoverLetter(ctx context.Context, id uuid.UUID, coverLetter string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE applications SET cover_letter = $1, updated_at = NOW() WHERE id = $2`,
		coverLetter, id)
	if err != nil {
		return fmt.Errorf("failed to update cover letter: %w", err)
	}
	return nil
}

// ListApplicationsByUser returns a user's applications, newest first.
func (db *DB) ListApplicationsByUser(ctx context.Context, userID uuid.UUID) ([]Application, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var applications []Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		applications = append(applications, *a)
	}
	return applications, rows.Err()
}

// scanApplication scans one row in applicationColumns order.
func scanApplication(row pgx.Row) (*Application, error) {
	var a Application
	var recsJSON []byte

	err := row.Scan(&a.ID, &a.UserID, &a.JobID, &a.Status, &a.TailoredResume, &a.CoverLetter,
		&a.CompatibilityScore, &a.SkillsMatchScore, &a.ExperienceMatchScore, &a.GoalsAlignmentScore,
		&recsJSON, &a.SubmittedAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	if recsJSON != nil {
		_ = json.Unmarshal(recsJSON, &a.AIRecommendations)
	}

	return &a, nil
}
