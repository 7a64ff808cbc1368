package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("failed to encode response", zap.Error(err))
	}
}

// errorResponse maps an error to a status code and writes it. 5xx responses
// carry a generic body so internal details never reach clients.
func (s *Server) errorResponse(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	message := err.Error()
	switch status {
	case http.StatusServiceUnavailable:
		message = "service temporarily unavailable"
	case http.StatusInternalServerError:
		message = "internal server error"
	}
	if status >= 500 {
		s.logger.Error("request failed", zap.Int("status", status), zap.Error(err))
	}
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON parses the request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &ErrValidation{Message: "invalid request body"}
	}
	return nil
}

// pathUUID parses a UUID path parameter.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, &ErrValidation{Message: "invalid " + name}
	}
	return id, nil
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
