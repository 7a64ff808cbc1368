package server

import (
	"net/http"

	"github.com/jonathan/jobmatch/internal/server/middleware"
	"github.com/jonathan/jobmatch/internal/types"
)

// handleRegister creates an account and returns it with a token.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, &ErrValidation{Message: err.Error()})
		return
	}

	user, err := s.users.Register(r.Context(), &req)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	token, err := s.jwt.GenerateToken(user.ID)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, types.AuthResponse{User: user, Token: token})
}

// handleLogin verifies credentials and returns the account with a token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, &ErrValidation{Message: err.Error()})
		return
	}

	user, err := s.users.Login(r.Context(), &req)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	token, err := s.jwt.GenerateToken(user.ID)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, types.AuthResponse{User: user, Token: token})
}

// handleCreateUser creates an account without issuing a token.
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, &ErrValidation{Message: err.Error()})
		return
	}

	user, err := s.users.Register(r.Context(), &req)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, user)
}

// handleGetMe returns the authenticated user's account.
func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	user, err := s.users.GetUser(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, user)
}

// handleGetUser returns an account by ID. Users can only read themselves.
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	authID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if authID != id {
		s.jsonResponse(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
		return
	}

	user, err := s.users.GetUser(r.Context(), id)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, user)
}
