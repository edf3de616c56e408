package task

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors in the executor failure taxonomy. The fallback layer maps
// each of these to a distinct user-facing message.
var (
	// ErrCloudUnavailable is returned when the cloud completion service
	// cannot be reached.
	ErrCloudUnavailable = errors.New("task: cloud service unavailable")

	// ErrTimeout is returned when task execution exceeded its deadline.
	ErrTimeout = errors.New("task: execution timed out")

	// ErrInvalidCloudResponse is returned when the cloud service answered
	// with something unusable.
	ErrInvalidCloudResponse = errors.New("task: invalid cloud response")

	// ErrCache is returned for internal cache faults.
	ErrCache = errors.New("task: cache error")

	// ErrFallbackFailed is returned when every fallback strategy declined.
	ErrFallbackFailed = errors.New("task: fallback failed")

	// ErrInternal is returned for unclassified internal faults.
	ErrInternal = errors.New("task: internal error")
)

// RateLimitError reports that the cloud service throttled the request.
type RateLimitError struct {
	// WaitTime is how long the service asked us to back off.
	WaitTime time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("task: rate limit exceeded, retry after %s", e.WaitTime)
}
