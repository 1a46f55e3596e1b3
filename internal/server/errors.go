package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/jonathan/job-agent/internal/assistant"
	"github.com/jonathan/job-agent/internal/fetch"
	"github.com/jonathan/job-agent/internal/interview"
	"github.com/jonathan/job-agent/internal/rendering"
	"github.com/jonathan/job-agent/internal/search"
	"github.com/jonathan/job-agent/internal/tracker"
)

// ErrInvalidCredentials indicates a failed owner login
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid password"
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		trackerValidation   *tracker.ValidationError
		assistantValidation *assistant.ValidationError
		notFound            *tracker.NotFoundError
		credentials         *ErrInvalidCredentials
		state               *interview.StateError
		network             *assistant.NetworkError
		upstream            *assistant.UpstreamError
		provider            *search.ProviderError
		fetchErr            *fetch.Error
		renderErr           *rendering.RenderError
	)

	switch {
	case errors.As(err, &trackerValidation), errors.As(err, &assistantValidation):
		return http.StatusBadRequest
	case errors.As(err, &credentials):
		return http.StatusUnauthorized
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &state):
		return http.StatusConflict
	case errors.As(err, &network):
		return http.StatusGatewayTimeout
	case errors.As(err, &upstream), errors.As(err, &provider), errors.As(err, &fetchErr), errors.As(err, &renderErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps err to a status and writes {"error": msg}. Internal
// errors are logged and reported generically.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("[server] internal error: %v", err)
		s.errorResponse(w, status, "internal error")
		return
	}
	s.errorResponse(w, status, err.Error())
}
