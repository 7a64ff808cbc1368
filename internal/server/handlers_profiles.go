package server

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/jobmatch/internal/db"
	"github.com/jonathan/jobmatch/internal/server/middleware"
	"github.com/jonathan/jobmatch/internal/types"
)

// requireSelf checks that the {id} path parameter names the authenticated
// user. Profile and application listings are private to their owner.
func (s *Server) requireSelf(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, err)
		return uuid.Nil, false
	}
	authID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, err)
		return uuid.Nil, false
	}
	if authID != id {
		s.jsonResponse(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
		return uuid.Nil, false
	}
	return id, true
}

// handleUpsertProfile replaces the user's profile text and recomputes all
// three embeddings before persisting, so stored vectors always correspond
// to stored text.
func (s *Server) handleUpsertProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireSelf(w, r)
	if !ok {
		return
	}

	var req types.ProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, &ErrValidation{Message: err.Error()})
		return
	}

	set, err := s.embedder.EmbedProfile(r.Context(), req.Skills, req.ExperienceSummary, req.CareerGoals)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	profile := &db.Profile{
		UserID:            userID,
		ResumeText:        req.ResumeText,
		Skills:            req.Skills,
		ExperienceSummary: req.ExperienceSummary,
		CareerGoals:       req.CareerGoals,
		Preferences:       req.Preferences,
	}

	id, err := s.store.UpsertProfile(r.Context(), profile, set)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	profile.ID = id

	s.jsonResponse(w, http.StatusOK, profile)
}

// handleGetProfile returns the user's profile.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireSelf(w, r)
	if !ok {
		return
	}

	profile, err := s.store.GetProfileByUserID(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if profile == nil {
		s.errorResponse(w, &ErrNotFound{Resource: "profile", ID: userID})
		return
	}

	s.jsonResponse(w, http.StatusOK, profile)
}
