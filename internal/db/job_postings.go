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
// Job Posting Methods
// -----------------------------------------------------------------------------

const jobPostingColumns = `id, external_id, platform, title, company, location,
	salary_min, salary_max, description, requirements, url,
	required_skills, preferred_skills, experience_years, is_active,
	description_embedding, requirements_embedding, posted_at, created_at, updated_at`

// CreateJobPosting inserts a job posting together with its embeddings and
// returns its ID.
func (db *DB) CreateJobPosting(ctx context.Context, p *JobPosting, set embeddings.JobEmbeddingSet) (uuid.UUID, error) {
	requiredJSON, err := json.Marshal(p.RequiredSkills)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal required skills: %w", err)
	}
	preferredJSON, err := json.Marshal(p.PreferredSkills)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal preferred skills: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO job_postings
		   (external_id, platform, title, company, location, salary_min, salary_max,
		    description, requirements, url, required_skills, preferred_skills,
		    experience_years, is_active, description_embedding, requirements_embedding, posted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, TRUE, $14, $15, $16)
		 RETURNING id`,
		p.ExternalID, p.Platform, p.Title, p.Company, p.Location, p.SalaryMin, p.SalaryMax,
		p.Description, p.Requirements, p.URL, requiredJSON, preferredJSON,
		p.ExperienceYears,
		pgvector.NewVector(set.Description),
		pgvector.NewVector(set.Requirements),
		p.PostedAt,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create job posting: %w", err)
	}
	return id, nil
}

// GetJobPosting retrieves a job posting by ID. Returns (nil, nil) when not
// found.
func (db *DB) GetJobPosting(ctx context.Context, id uuid.UUID) (*JobPosting, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+jobPostingColumns+` FROM job_postings WHERE id = $1`, id)
	return scanJobPosting(row)
}

// UpdateJobPosting rewrites the posting's text fields together with fresh
// embeddings.
func (db *DB) UpdateJobPosting(ctx context.Context, p *JobPosting, set embeddings.JobEmbeddingSet) error {
	requiredJSON, err := json.Marshal(p.RequiredSkills)
	if err != nil {
		return fmt.Errorf("failed to marshal required skills: %w", err)
	}
	preferredJSON, err := json.Marshal(p.PreferredSkills)
	if err != nil {
		return fmt.Errorf("failed to marshal preferred skills: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`UPDATE job_postings SET
		   title = $1, company = $2, location = $3, salary_min = $4, salary_max = $5,
		   description = $6, requirements = $7, url = $8, required_skills = $9,
		   preferred_skills = $10, experience_years = $11,
		   description_embedding = $12, requirements_embedding = $13, updated_at = NOW()
		 WHERE id = $14`,
		p.Title, p.Company, p.Location, p.SalaryMin, p.SalaryMax,
		p.Description, p.Requirements, p.URL, requiredJSON, preferredJSON, p.ExperienceYears,
		pgvector.NewVector(set.Description),
		pgvector.NewVector(set.Requirements),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update job posting: %w", err)
	}
	return nil
}

// UpdateJobEmbeddings rewrites only the stored vectors, used by maintenance
// commands after an embedding model change. Source text is unchanged, so the
// lifecycle rule holds.
func (db *DB) UpdateJobEmbeddings(ctx context.Context, id uuid.UUID, set embeddings.JobEmbeddingSet) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE job_postings SET description_embedding = $1, requirements_embedding = $2, updated_at = NOW()
		 WHERE id = $3`,
		pgvector.NewVector(set.Description), pgvector.NewVector(set.Requirements), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update job embeddings: %w", err)
	}
	return nil
}

// DeactivateJobPosting marks a posting inactive so it no longer appears in
// matching. The row is kept for existing applications.
func (db *DB) DeactivateJobPosting(ctx context.Context, id uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE job_postings SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate job posting: %w", err)
	}
	return nil
}

// ListActiveJobPostings returns all active postings, newest first.
func (db *DB) ListActiveJobPostings(ctx context.Context) ([]JobPosting, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+jobPostingColumns+` FROM job_postings WHERE is_active ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list job postings: %w", err)
	}
	defer rows.Close()

	var postings []JobPosting
	for rows.Next() {
		p, err := scanJobPosting(rows)
		if err != nil {
			return nil, err
		}
		postings = append(postings, *p)
	}
	return postings, rows.Err()
}

// scanJobPosting scans one row in jobPostingColumns order.
func scanJobPosting(row pgx.Row) (*JobPosting, error) {
	var p JobPosting
	var requiredJSON, preferredJSON []byte

	err := row.Scan(&p.ID, &p.ExternalID, &p.Platform, &p.Title, &p.Company, &p.Location,
		&p.SalaryMin, &p.SalaryMax, &p.Description, &p.Requirements, &p.URL,
		&requiredJSON, &preferredJSON, &p.ExperienceYears, &p.IsActive,
		&p.DescriptionEmbedding, &p.RequirementsEmbedding, &p.PostedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job posting: %w", err)
	}

	if requiredJSON != nil {
		_ = json.Unmarshal(requiredJSON, &p.RequiredSkills)
	}
	if preferredJSON != nil {
		_ = json.Unmarshal(preferredJSON, &p.PreferredSkills)
	}

	return &p, nil
}
