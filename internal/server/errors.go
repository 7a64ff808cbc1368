// Package server provides the HTTP REST API for the jobmatch service.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/jobmatch/internal/embeddings"
	"github.com/jonathan/jobmatch/internal/matching"
)

// ErrEmailAlreadyExists indicates email is already registered.
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials.
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrNotFound indicates a requested resource does not exist.
type ErrNotFound struct {
	Resource string
	ID       uuid.UUID
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrValidation indicates request validation failure.
type ErrValidation struct {
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ErrInvalidStatusTransition indicates a disallowed application status move.
type ErrInvalidStatusTransition struct {
	From string
	To   string
}

func (e *ErrInvalidStatusTransition) Error() string {
	return fmt.Sprintf("cannot move application from %s to %s", e.From, e.To)
}

// ErrUpstreamUnavailable wraps a datastore or provider failure that the
// client can retry later.
type ErrUpstreamUnavailable struct {
	Cause error
}

func (e *ErrUpstreamUnavailable) Error() string {
	return fmt.Sprintf("upstream unavailable: %v", e.Cause)
}

func (e *ErrUpstreamUnavailable) Unwrap() error {
	return e.Cause
}

// HTTPStatus maps an error to its response status code.
func HTTPStatus(err error) int {
	var providerErr *embeddings.ProviderError
	if errors.As(err, &providerErr) {
		return http.StatusServiceUnavailable
	}
	var unavailable *ErrUpstreamUnavailable
	if errors.As(err, &unavailable) {
		return http.StatusServiceUnavailable
	}
	if errors.Is(err, matching.ErrInvalidArgument) {
		return http.StatusBadRequest
	}

	switch err.(type) {
	case *ErrEmailAlreadyExists:
		return http.StatusConflict
	case *ErrInvalidCredentials:
		return http.StatusUnauthorized
	case *ErrNotFound:
		return http.StatusNotFound
	case *ErrValidation:
		return http.StatusBadRequest
	case *ErrInvalidStatusTransition:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
