package agents

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobmatch/internal/db"
	"github.com/jonathan/jobmatch/internal/llm"
)

type mockLLM struct {
	jsonResponse string
	textResponse string
	err          error
	prompts      []string
}

func (m *mockLLM) GenerateContent(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	m.prompts = append(m.prompts, prompt)
	return m.textResponse, m.err
}

func (m *mockLLM) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	m.prompts = append(m.prompts, prompt)
	return m.jsonResponse, m.err
}

func (m *mockLLM) Close() error { return nil }

func testJob() *db.JobPosting {
	return &db.JobPosting{
		Title:        "Backend Engineer",
		Company:      "Acme",
		Description:  "Build and run backend services.",
		Requirements: "Go, PostgreSQL, 3+ years experience.",
	}
}

func TestJobAnalyzerParsesValidOutput(t *testing.T) {
	mock := &mockLLM{jsonResponse: `{
		"required_skills": ["Go", "PostgreSQL"],
		"preferred_skills": ["Kubernetes"],
		"experience_level": "mid",
		"salary_range": "$120k-$150k",
		"company_culture": null,
		"key_responsibilities": ["Build services", "Operate databases"]
	}`}

	analyzer := NewJobAnalyzer(mock, nil)
	analysis, err := analyzer.Analyze(context.Background(), testJob())
	require.NoError(t, err)

	assert.Equal(t, []string{"Go", "PostgreSQL"}, analysis.RequiredSkills)
	assert.Equal(t, []string{"Kubernetes"}, analysis.PreferredSkills)
	assert.Equal(t, "mid", analysis.ExperienceLevel)
	require.NotNil(t, analysis.SalaryRange)
	assert.Equal(t, "$120k-$150k", *analysis.SalaryRange)
	assert.Nil(t, analysis.CompanyCulture)
	assert.Len(t, analysis.KeyResponsibilities, 2)
}

func TestJobAnalyzerPromptIncludesPosting(t *testing.T) {
	mock := &mockLLM{jsonResponse: `{
		"required_skills": [],
		"preferred_skills": [],
		"experience_level": "entry",
		"key_responsibilities": []
	}`}

	analyzer := NewJobAnalyzer(mock, nil)
	_, err := analyzer.Analyze(context.Background(), testJob())
	require.NoError(t, err)

	require.Len(t, mock.prompts, 1)
	assert.Contains(t, mock.prompts[0], "Backend Engineer")
	assert.Contains(t, mock.prompts[0], "Acme")
	assert.Contains(t, mock.prompts[0], "Go, PostgreSQL")
}

func TestJobAnalyzerRejectsNonconformingOutput(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{
			name:     "missing required field",
			response: `{"required_skills": [], "preferred_skills": [], "key_responsibilities": []}`,
		},
		{
			name: "invalid experience level",
			response: `{"required_skills": [], "preferred_skills": [],
				"experience_level": "principal", "key_responsibilities": []}`,
		},
		{
			name: "unexpected field",
			response: `{"required_skills": [], "preferred_skills": [],
				"experience_level": "mid", "key_responsibilities": [], "extra": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := NewJobAnalyzer(&mockLLM{jsonResponse: tt.response}, nil)
			analysis, err := analyzer.Analyze(context.Background(), testJob())
			assert.Error(t, err)
			assert.Nil(t, analysis)
		})
	}
}

func TestJobAnalyzerPropagatesClientError(t *testing.T) {
	analyzer := NewJobAnalyzer(&mockLLM{err: errors.New("quota exceeded")}, nil)
	_, err := analyzer.Analyze(context.Background(), testJob())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}
