package domain

import "errors"

var (
	// ErrNotFound is returned when the requested resource does not exist.
	// Keeping this sentinel in domain lets adapters map it consistently to
	// 404/NOT_FOUND, distinct from ErrForbidden.
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidCredentials hides whether the username or the password
	// failed. The reason is to prevent account-enumeration side channels.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountLocked signals temporary lockout after repeated failed
	// attempts.
	ErrAccountLocked = errors.New("account locked")
	// ErrForbidden is an authenticated-but-unauthorized action. Callers must
	// never downgrade it to a silent no-op.
	ErrForbidden = errors.New("forbidden")
	// ErrRuleViolation covers the admin-account-protection rules: demoting or
	// deleting the protected admin, or exceeding the admin ceiling. It always
	// carries a specific human-readable reason and is never conflated with
	// the generic ErrForbidden.
	ErrRuleViolation = errors.New("rule violation")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInvalidInput  = errors.New("invalid input")
	ErrConflict      = errors.New("conflict")
	// ErrPeerUnavailable marks a failed call to an internal peer on a
	// non-wrapped path; it is surfaced to the caller, never masked.
	ErrPeerUnavailable = errors.New("peer service unavailable")
)
