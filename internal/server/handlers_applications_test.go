package server

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createApplication(t *testing.T, h *testHarness, token string, jobID uuid.UUID, snapshot bool) uuid.UUID {
	t.Helper()
	rec := h.do(t, http.MethodPost, "/applications", token, map[string]any{
		"job_id":         jobID,
		"snapshot_score": snapshot,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id, err := uuid.Parse(jsonField(t, rec.Body.Bytes(), "id").(string))
	require.NoError(t, err)
	return id
}

func TestCreateApplicationDraft(t *testing.T) {
	h := newTestHarness(t)
	_, token := h.registerUser(t, "alice@example.com")
	jobID := createJob(t, h, token)

	appID := createApplication(t, h, token, jobID, false)

	stored := h.store.applications[appID]
	require.NotNil(t, stored)
	assert.Equal(t, "draft", stored.Status)
	assert.Nil(t, stored.CompatibilityScore)
}

func TestCreateApplicationWithSnapshot(t *testing.T) {
	h := newTestHarness(t)
	userID, token := h.registerUser(t, "alice@example.com")
	seedProfile(t, h, token, userID)
	jobID := createJob(t, h, token)

	appID := createApplication(t, h, token, jobID, true)

	stored := h.store.applications[appID]
	require.NotNil(t, stored.CompatibilityScore)
	// Fake embedder returns identical unit vectors, so every component is 1.
	assert.InDelta(t, 1.0, *stored.CompatibilityScore, 1e-9)
	assert.InDelta(t, 1.0, *stored.SkillsMatchScore, 1e-9)
}

func TestCreateApplicationUnknownJob(t *testing.T) {
	h := newTestHarness(t)
	_, token := h.registerUser(t, "alice@example.com")

	rec := h.do(t, http.MethodPost, "/applications", token, map[string]any{
		"job_id": uuid.New(),
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestApplicationStatusTransitions(t *testing.T) {
	h := newTestHarness(t)
	_, token := h.registerUser(t, "alice@example.com")
	jobID := createJob(t, h, token)
	appID := createApplication(t, h, token, jobID, false)

	// draft -> submitted is allowed.
	rec := h.do(t, http.MethodPatch, "/applications/"+appID.String()+"/status", token,
		map[string]any{"status": "submitted"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "submitted", h.store.applications[appID].Status)

	// submitted -> accepted skips interview and is rejected.
	rec = h.do(t, http.MethodPatch, "/applications/"+appID.String()+"/status", token,
		map[string]any{"status": "accepted"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "submitted", h.store.applications[appID].Status)

	// Unknown status fails validation before the transition check.
	rec = h.do(t, http.MethodPatch, "/applications/"+appID.String()+"/status", token,
		map[string]any{"status": "ghosted"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApplicationOwnership(t *testing.T) {
	h := newTestHarness(t)
	_, aliceToken := h.registerUser(t, "alice@example.com")
	_, bobToken := h.registerUser(t, "bob@example.com")
	jobID := createJob(t, h, aliceToken)
	appID := createApplication(t, h, aliceToken, jobID, false)

	// Bob cannot see or modify Alice's application.
	rec := h.do(t, http.MethodGet, "/applications/"+appID.String(), bobToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = h.do(t, http.MethodPatch, "/applications/"+appID.String()+"/status", bobToken,
		map[string]any{"status": "submitted"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListApplications(t *testing.T) {
	h := newTestHarness(t)
	userID, token := h.registerUser(t, "alice@example.com")
	jobID := createJob(t, h, token)
	createApplication(t, h, token, jobID, false)

	rec := h.do(t, http.MethodGet, "/users/"+userID.String()+"/applications", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	apps := jsonField(t, rec.Body.Bytes(), "applications").([]any)
	assert.Len(t, apps, 1)
}

func TestGenerateCoverLetter(t *testing.T) {
	h := newTestHarness(t)
	userID, token := h.registerUser(t, "alice@example.com")
	seedProfile(t, h, token, userID)
	jobID := createJob(t, h, token)
	appID := createApplication(t, h, token, jobID, false)

	rec := h.do(t, http.MethodPost, "/applications/"+appID.String()+"/cover-letter", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Dear Hiring Manager,", h.store.applications[appID].CoverLetter)
}

func TestGenerateCoverLetterNeedsProfile(t *testing.T) {
	h := newTestHarness(t)
	_, token := h.registerUser(t, "alice@example.com")
	jobID := createJob(t, h, token)
	appID := createApplication(t, h, token, jobID, false)

	rec := h.do(t, http.MethodPost, "/applications/"+appID.String()+"/cover-letter", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
