package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/jonathan/jobmatch/internal/matching"
)

// handleGetMatches runs ranked retrieval for the user's profile. limit and
// min_score query parameters override the configured defaults; out-of-range
// values are rejected by the engine, never silently adjusted.
func (s *Server) handleGetMatches(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireSelf(w, r)
	if !ok {
		return
	}

	limit := s.cfg.MatchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			s.errorResponse(w, &ErrValidation{Message: "limit must be an integer"})
			return
		}
		limit = v
	}

	minScore := s.cfg.MinMatchScore
	if raw := r.URL.Query().Get("min_score"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			s.errorResponse(w, &ErrValidation{Message: "min_score must be a number"})
			return
		}
		minScore = v
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

	matches, err := s.engine.FindCompatible(r.Context(), profile.EmbeddingSet(), s.supplier, limit, minScore)
	if err != nil {
		if errors.Is(err, matching.ErrInvalidArgument) || errors.Is(err, matching.ErrDimensionMismatch) {
			s.errorResponse(w, err)
			return
		}
		// Supplier failures are retryable from the client's perspective.
		s.errorResponse(w, &ErrUpstreamUnavailable{Cause: err})
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"matches":   matches,
		"limit":     limit,
		"min_score": minScore,
	})
}
