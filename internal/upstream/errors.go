package upstream

import (
	"errors"
	"fmt"
	"net/http"
)

// FetchError is the boundary error for every backend interaction: transport
// failures, non-2xx statuses and response-shape mismatches all surface as a
// FetchError so views can treat the backend uniformly and recover locally.
type FetchError struct {
	Op     string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstream: %s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("upstream: %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Unauthorized reports whether the backend rejected the bearer token.
func (e *FetchError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// Retryable reports whether the failure is worth a manual retry: transport
// errors and 5xx responses qualify, shape mismatches and 4xx do not.
func (e *FetchError) Retryable() bool {
	return e.Status == 0 || e.Status >= http.StatusInternalServerError
}

var errShape = errors.New("unexpected response shape")

func fetchErr(op string, status int, err error) *FetchError {
	return &FetchError{Op: op, Status: status, Err: err}
}

func shapeErr(op string, detail string) *FetchError {
	return &FetchError{Op: op, Err: fmt.Errorf("%w: %s", errShape, detail)}
}

// IsShapeMismatch reports whether err stems from a malformed backend payload.
func IsShapeMismatch(err error) bool {
	return errors.Is(err, errShape)
}
