package fallback

import (
	"time"

	"github.com/cenkalti/backoff/v5"
)

// RetrySchedule returns the pacing callers should apply between retries of
// the primary executor: exponential growth with jitter, capped at 30s. The
// manager itself never sleeps; whether and when to retry is the caller's
// decision, informed by HasRecentFailures.
func (m *Manager) RetrySchedule() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.RandomizationFactor = 0.25
	b.Multiplier = 2
	b.MaxInterval = 30 * time.Second
	return b
}
