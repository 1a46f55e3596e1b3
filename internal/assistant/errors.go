package assistant

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ValidationError indicates the request cannot be sent to the provider,
// e.g. no resume has been uploaded yet.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// UpstreamError indicates the AI provider failed or returned nothing usable
type UpstreamError struct {
	Op    string
	Cause error
}

func (e *UpstreamError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s failed: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("%s failed", e.Op)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// NetworkError indicates the provider could not be reached in time
type NetworkError struct {
	Op    string
	Cause error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: provider unreachable: %v", e.Op, e.Cause)
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// classify wraps a provider error as NetworkError (transport, timeout,
// cancellation) or UpstreamError (everything else).
func classify(op string, err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled), errors.As(err, &netErr):
		return &NetworkError{Op: op, Cause: err}
	default:
		return &UpstreamError{Op: op, Cause: err}
	}
}
