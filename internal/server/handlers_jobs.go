package server

import (
	"net/http"

	"github.com/jonathan/jobmatch/internal/db"
	"github.com/jonathan/jobmatch/internal/ingestion"
	"github.com/jonathan/jobmatch/internal/types"
)

// jobFromRequest builds a posting from a request. Raw HTML, when present,
// is reduced to text and becomes the description.
func jobFromRequest(req *types.JobPostingRequest) (*db.JobPosting, error) {
	description := req.Description
	if req.HTML != "" {
		text, err := ingestion.ExtractText(req.HTML)
		if err != nil {
			return nil, &ErrValidation{Message: "could not parse posting HTML"}
		}
		description = text
	}
	if description == "" {
		return nil, &ErrValidation{Message: "description or html is required"}
	}

	return &db.JobPosting{
		ExternalID:   req.ExternalID,
		Platform:     req.Platform,
		Title:        req.Title,
		Company:      req.Company,
		Location:     req.Location,
		SalaryMin:    req.SalaryMin,
		SalaryMax:    req.SalaryMax,
		Description:  description,
		Requirements: req.Requirements,
		URL:          req.URL,
		PostedAt:     req.PostedAt,
		IsActive:     true,
	}, nil
}

// handleCreateJob stores a posting with freshly computed embeddings.
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req types.JobPostingRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, &ErrValidation{Message: err.Error()})
		return
	}

	job, err := jobFromRequest(&req)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	set, err := s.embedder.EmbedJob(r.Context(), job.Description, job.Requirements)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	id, err := s.store.CreateJobPosting(r.Context(), job, set)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	job.ID = id

	s.jsonResponse(w, http.StatusCreated, job)
}

// handleGetJob returns one posting.
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	job, err := s.store.GetJobPosting(r.Context(), id)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if job == nil {
		s.errorResponse(w, &ErrNotFound{Resource: "job posting", ID: id})
		return
	}

	s.jsonResponse(w, http.StatusOK, job)
}

// handleUpdateJob replaces a posting's content and re-embeds it.
func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	existing, err := s.store.GetJobPosting(r.Context(), id)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if existing == nil {
		s.errorResponse(w, &ErrNotFound{Resource: "job posting", ID: id})
		return
	}

	var req types.JobPostingRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, &ErrValidation{Message: err.Error()})
		return
	}

	job, err := jobFromRequest(&req)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	job.ID = id
	job.IsActive = existing.IsActive

	set, err := s.embedder.EmbedJob(r.Context(), job.Description, job.Requirements)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	if err := s.store.UpdateJobPosting(r.Context(), job, set); err != nil {
		s.errorResponse(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, job)
}

// handleDeactivateJob soft-deletes a posting so it drops out of matching.
func (s *Server) handleDeactivateJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	job, err := s.store.GetJobPosting(r.Context(), id)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if job == nil {
		s.errorResponse(w, &ErrNotFound{Resource: "job posting", ID: id})
		return
	}

	if err := s.store.DeactivateJobPosting(r.Context(), id); err != nil {
		s.errorResponse(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleAnalyzeJob runs the analysis agent over a stored posting.
func (s *Server) handleAnalyzeJob(w http.ResponseWriter, r *http.Request) {
	if s.analyzer == nil {
		s.jsonResponse(w, http.StatusNotImplemented, map[string]string{"error": "job analysis is not configured"})
		return
	}

	id, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	job, err := s.store.GetJobPosting(r.Context(), id)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if job == nil {
		s.errorResponse(w, &ErrNotFound{Resource: "job posting", ID: id})
		return
	}

	analysis, err := s.analyzer.Analyze(r.Context(), job)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, analysis)
}
