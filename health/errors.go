package health

import "errors"

// Sentinel errors for health checks.
var (
	// ErrCheckFailed is returned when a health check reports a critical condition.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrCheckTimeout is returned when a health check does not complete in time.
	ErrCheckTimeout = errors.New("health: check timed out")

	// ErrCheckerNotFound is returned when a named checker is not registered.
	ErrCheckerNotFound = errors.New("health: checker not found")
)
