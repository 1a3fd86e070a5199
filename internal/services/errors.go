package services

import "errors"

// Sentinel errors reused across services. Higher layers such as handlers
// distinguish failure scenarios through errors.Is and translate them into
// HTTP statuses.
var (
	// ErrInvalidCredentials is returned when an email/password pair does
	// not authenticate. Handlers translate this into a 401.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrBackendUnavailable is returned when the identity-and-storage
	// backend cannot be reached. Handlers translate this into a 503.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrForbidden is returned when the caller attempts an operation on
	// records it does not own, or an administrator attempts to bulk-clear
	// the shared history table. Handlers translate this into a 403.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound is returned when the targeted record does not exist.
	// Handlers translate this into a 404.
	ErrNotFound = errors.New("not found")

	// ErrPersistenceFailed is returned when a classification record could
	// not be written after the classification itself already succeeded.
	// Callers log it and keep the user-visible result.
	ErrPersistenceFailed = errors.New("persistence failed")
)
