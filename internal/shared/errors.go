package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated indicates a missing or expired session.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden indicates the session role does not permit the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrNothingToExport blocks export requests over an empty working set.
	ErrNothingToExport = errors.New("nothing to export")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)
