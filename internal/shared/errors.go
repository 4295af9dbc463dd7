package shared

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// Configuration errors
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrMissingCode      = fmt.Errorf("no authorization code provided")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTokenExpired     = fmt.Errorf("access token expired")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Comparison errors
	ErrComparisonUsed = fmt.Errorf("comparison already run")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// UpstreamAuthError reports a non-success response from the accounts service or the Web API.
//
// Status and Body are copied verbatim from the upstream response.
type UpstreamAuthError struct {
	Endpoint string
	Status   int
	Body     string
}

func (e *UpstreamAuthError) Error() string {
	return fmt.Sprintf("upstream %s returned status %d: %s", e.Endpoint, e.Status, e.Body)
}

func (e *UpstreamAuthError) Unwrap() error { return ErrAPIRequest }

// Is reports 401 responses as [ErrTokenExpired] so callers can prompt for a new login.
func (e *UpstreamAuthError) Is(target error) bool {
	return target == ErrTokenExpired && e.Status == http.StatusUnauthorized
}

// NetworkError wraps a transport failure (DNS, timeout, connection reset).
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// UnresolvedReferenceError is returned when a playlist reference cannot be turned into an ID.
type UnresolvedReferenceError struct {
	Mode  string
	Input string
}

func (e *UnresolvedReferenceError) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("unresolved %s playlist reference: empty input", e.Mode)
	}
	return fmt.Sprintf("unresolved %s playlist reference %q", e.Mode, e.Input)
}

func (e *UnresolvedReferenceError) Unwrap() error { return ErrInvalidInput }

// HTTPStatus translates an error from the core into the status code reported at the HTTP boundary.
func HTTPStatus(err error) int {
	var (
		upstream   *UpstreamAuthError
		network    *NetworkError
		unresolved *UnresolvedReferenceError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrMissingCode), errors.As(err, &unresolved):
		return http.StatusBadRequest
	case errors.As(err, &upstream):
		if upstream.Status < 400 {
			return http.StatusBadGateway
		}
		return upstream.Status
	case errors.As(err, &network):
		return http.StatusBadGateway
	case errors.Is(err, ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrInvalidArgument), errors.Is(err, ErrMissingArgument), errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
