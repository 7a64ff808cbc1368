// Package agents holds the LLM-backed helpers for job analysis and
// application material generation.
package agents

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/jobmatch/internal/db"
	"github.com/jonathan/jobmatch/internal/llm"
	"github.com/jonathan/jobmatch/internal/schemas"
)

//go:embed job_analysis_schema.json
var jobAnalysisSchema string

// JobAnalysis is the structured result of analyzing one job posting.
type JobAnalysis struct {
	RequiredSkills      []string `json:"required_skills"`
	PreferredSkills     []string `json:"preferred_skills"`
	ExperienceLevel     string   `json:"experience_level"`
	SalaryRange         *string  `json:"salary_range,omitempty"`
	CompanyCulture      *string  `json:"company_culture,omitempty"`
	KeyResponsibilities []string `json:"key_responsibilities"`
}

// JobAnalyzer extracts structured requirements from a job posting.
type JobAnalyzer struct {
	client llm.Client
	logger *zap.Logger
}

// NewJobAnalyzer creates a job analyzer. A nil logger disables logging.
func NewJobAnalyzer(client llm.Client, logger *zap.Logger) *JobAnalyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JobAnalyzer{client: client, logger: logger}
}

const jobAnalysisPrompt = `You are an expert job market analyst. Analyze the job posting and extract structured information.

Extract:
1. Required skills (must-have technical and soft skills) as "required_skills"
2. Preferred skills (nice-to-have) as "preferred_skills"
3. Experience level as "experience_level" (one of: entry, mid, senior)
4. Salary range if mentioned as "salary_range" (null if absent)
5. Company culture indicators as "company_culture" (null if absent)
6. Key responsibilities as "key_responsibilities"

Return valid JSON only, with exactly those keys.

Job Title: %s

Company: %s

Description:
%s

Requirements:
%s`

// Analyze runs the analyzer for a posting. The model output is validated
// against a schema before unmarshaling; output that does not conform is an
// error, never partial data.
func (a *JobAnalyzer) Analyze(ctx context.Context, job *db.JobPosting) (*JobAnalysis, error) {
	start := time.Now()

	prompt := fmt.Sprintf(jobAnalysisPrompt, job.Title, job.Company, job.Description, job.Requirements)

	raw, err := a.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, fmt.Errorf("job analysis generation failed: %w", err)
	}

	if err := schemas.ValidateString(jobAnalysisSchema, raw); err != nil {
		return nil, fmt.Errorf("job analysis output rejected: %w", err)
	}

	var analysis JobAnalysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse job analysis: %w", err)
	}

	a.logger.Info("job analysis complete",
		zap.String("title", job.Title),
		zap.String("company", job.Company),
		zap.Int("required_skills", len(analysis.RequiredSkills)),
		zap.Duration("elapsed", time.Since(start)))

	return &analysis, nil
}
