package agents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/jobmatch/internal/db"
	"github.com/jonathan/jobmatch/internal/llm"
)

// CoverLetterWriter generates a personalized cover letter for one
// profile/job pair, optionally informed by a prior job analysis.
type CoverLetterWriter struct {
	client llm.Client
	logger *zap.Logger
}

// NewCoverLetterWriter creates a cover letter writer. A nil logger
// disables logging.
func NewCoverLetterWriter(client llm.Client, logger *zap.Logger) *CoverLetterWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CoverLetterWriter{client: client, logger: logger}
}

const coverLetterPrompt = `You are an expert career coach and cover letter writer.

Write a compelling, personalized cover letter that:
1. Shows genuine interest in the company and role
2. Highlights relevant experience and achievements
3. Demonstrates cultural fit
4. Is concise (3-4 paragraphs)
5. Has a professional yet warm tone

Return only the cover letter text, no additional commentary.

Job Details:
Title: %s
Company: %s
Description: %s

Candidate Profile:
Skills: %s
Experience: %s
Career Goals: %s
%s`

// Generate writes a cover letter. analysis may be nil when the posting has
// not been analyzed yet.
func (w *CoverLetterWriter) Generate(ctx context.Context, job *db.JobPosting, profile *db.Profile, analysis *JobAnalysis) (string, error) {
	start := time.Now()

	var analysisSection string
	if analysis != nil {
		analysisSection = fmt.Sprintf("\nJob Analysis:\nRequired Skills: %s\nKey Responsibilities: %s\n",
			strings.Join(analysis.RequiredSkills, ", "),
			strings.Join(analysis.KeyResponsibilities, "; "))
	}

	prompt := fmt.Sprintf(coverLetterPrompt,
		job.Title, job.Company, job.Description,
		profile.Skills, profile.ExperienceSummary, profile.CareerGoals,
		analysisSection)

	letter, err := w.client.GenerateContent(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return "", fmt.Errorf("cover letter generation failed: %w", err)
	}

	letter = strings.TrimSpace(letter)
	if letter == "" {
		return "", fmt.Errorf("cover letter generation returned empty text")
	}

	w.logger.Info("cover letter generated",
		zap.String("title", job.Title),
		zap.String("company", job.Company),
		zap.Duration("elapsed", time.Since(start)))

	return letter, nil
}
