package llm

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

var (
	// ErrNetwork marks failures to reach the remote endpoint at all
	ErrNetwork = errors.New("network error")

	// ErrAPI marks non-success replies from the remote endpoint
	ErrAPI = errors.New("api error")
)

// APIError is returned when the service answers with a non-success status
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API Error: %s", e.Message)
}

// Is lets callers match any APIError with errors.Is(err, ErrAPI)
func (e *APIError) Is(target error) bool {
	return target == ErrAPI
}

// NetworkError is returned when the request never produced an HTTP response
type NetworkError struct {
	Service string
	Err     error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("Network error while connecting to %s. Please check your internet connection.", e.Service)
}

func (e *NetworkError) Unwrap() []error {
	return []error{ErrNetwork, e.Err}
}

// classifyTransportError maps an error from http.Client.Do onto the taxonomy.
// Caller cancellation is passed through untouched.
func classifyTransportError(service string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request to %s aborted: %w", service, err)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &NetworkError{Service: service, Err: err}
	}

	return fmt.Errorf("execute request: %w", err)
}
