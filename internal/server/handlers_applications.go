package server

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/jobmatch/internal/db"
	"github.com/jonathan/jobmatch/internal/server/middleware"
	"github.com/jonathan/jobmatch/internal/types"
)

// handleCreateApplication starts a draft application. When requested, the
// current compatibility breakdown is snapshotted onto the row; the engine's
// live output remains the source of truth afterwards.
func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	var req types.CreateApplicationRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, &ErrValidation{Message: err.Error()})
		return
	}

	job, err := s.store.GetJobPosting(r.Context(), req.JobID)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if job == nil {
		s.errorResponse(w, &ErrNotFound{Resource: "job posting", ID: req.JobID})
		return
	}

	app := &db.Application{
		UserID: userID,
		JobID:  req.JobID,
		Status: db.StatusDraft,
	}

	if req.SnapshotScore {
		profile, err := s.store.GetProfileByUserID(r.Context(), userID)
		if err != nil {
			s.errorResponse(w, err)
			return
		}
		if profile == nil {
			s.errorResponse(w, &ErrNotFound{Resource: "profile", ID: userID})
			return
		}

		result, err := s.engine.Score(job.EmbeddingSet(), profile.EmbeddingSet())
		if err != nil {
			s.errorResponse(w, err)
			return
		}
		app.CompatibilityScore = &result.OverallScore
		app.SkillsMatchScore = &result.SkillsMatch
		app.ExperienceMatchScore = &result.ExperienceMatch
		app.GoalsAlignmentScore = &result.GoalsAlignment
	}

	id, err := s.store.CreateApplication(r.Context(), app)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	app.ID = id

	s.jsonResponse(w, http.StatusCreated, app)
}

// getOwnedApplication loads an application and enforces ownership.
func (s *Server) getOwnedApplication(r *http.Request, id uuid.UUID) (*db.Application, error) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		return nil, err
	}

	app, err := s.store.GetApplication(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if app == nil || app.UserID != userID {
		return nil, &ErrNotFound{Resource: "application", ID: id}
	}
	return app, nil
}

// handleGetApplication returns one application.
func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	app, err := s.getOwnedApplication(r, id)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, app)
}

// handleListApplications returns the user's applications, newest first.
func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireSelf(w, r)
	if !ok {
		return
	}

	apps, err := s.store.ListApplicationsByUser(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"applications": apps})
}

// handleUpdateApplicationStatus moves an application through its lifecycle.
// Disallowed transitions are a conflict, not an update.
func (s *Server) handleUpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	app, err := s.getOwnedApplication(r, id)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	var req types.UpdateApplicationStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, &ErrValidation{Message: err.Error()})
		return
	}

	if !db.ValidTransition(app.Status, req.Status) {
		s.errorResponse(w, &ErrInvalidStatusTransition{From: app.Status, To: req.Status})
		return
	}

	if err := s.store.UpdateApplicationStatus(r.Context(), id, req.Status); err != nil {
		s.errorResponse(w, err)
		return
	}
	app.Status = req.Status

	s.jsonResponse(w, http.StatusOK, app)
}

// handleGenerateCoverLetter writes a cover letter for the application and
// stores it on the row.
func (s *Server) handleGenerateCoverLetter(w http.ResponseWriter, r *http.Request) {
	if s.writer == nil {
		s.jsonResponse(w, http.StatusNotImplemented, map[string]string{"error": "cover letter generation is not configured"})
		return
	}

	id, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	app, err := s.getOwnedApplication(r, id)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	job, err := s.store.GetJobPosting(r.Context(), app.JobID)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if job == nil {
		s.errorResponse(w, &ErrNotFound{Resource: "job posting", ID: app.JobID})
		return
	}

	profile, err := s.store.GetProfileByUserID(r.Context(), app.UserID)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if profile == nil {
		s.errorResponse(w, &ErrNotFound{Resource: "profile", ID: app.UserID})
		return
	}

	letter, err := s.writer.Generate(r.Context(), job, profile, nil)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	if err := s.store.UpdateApplicationCoverLetter(r.Context(), id, letter); err != nil {
		s.errorResponse(w, err)
		return
	}
	app.CoverLetter = letter

	s.jsonResponse(w, http.StatusOK, app)
}
