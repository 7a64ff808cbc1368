package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobmatch/internal/db"
)

func testProfile() *db.Profile {
	return &db.Profile{
		Skills:            "Go, distributed systems",
		ExperienceSummary: "Five years building backend services.",
		CareerGoals:       "Lead a platform team.",
	}
}

func TestCoverLetterGenerate(t *testing.T) {
	mock := &mockLLM{textResponse: "Dear Hiring Manager,\n\nI am excited to apply."}

	writer := NewCoverLetterWriter(mock, nil)
	letter, err := writer.Generate(context.Background(), testJob(), testProfile(), nil)
	require.NoError(t, err)
	assert.Contains(t, letter, "Dear Hiring Manager")

	require.Len(t, mock.prompts, 1)
	assert.Contains(t, mock.prompts[0], "Acme")
	assert.Contains(t, mock.prompts[0], "distributed systems")
	assert.NotContains(t, mock.prompts[0], "Job Analysis:")
}

func TestCoverLetterIncludesAnalysis(t *testing.T) {
	mock := &mockLLM{textResponse: "Dear team,"}
	analysis := &JobAnalysis{
		RequiredSkills:      []string{"Go", "PostgreSQL"},
		KeyResponsibilities: []string{"Build services"},
	}

	writer := NewCoverLetterWriter(mock, nil)
	_, err := writer.Generate(context.Background(), testJob(), testProfile(), analysis)
	require.NoError(t, err)

	require.Len(t, mock.prompts, 1)
	assert.Contains(t, mock.prompts[0], "Job Analysis:")
	assert.Contains(t, mock.prompts[0], "Go, PostgreSQL")
}

func TestCoverLetterRejectsEmptyOutput(t *testing.T) {
	writer := NewCoverLetterWriter(&mockLLM{textResponse: "   \n"}, nil)
	_, err := writer.Generate(context.Background(), testJob(), testProfile(), nil)
	assert.Error(t, err)
}
