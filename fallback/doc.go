// Package fallback degrades gracefully when the primary task executor fails.
//
// A Manager tracks failure history per normalized input and walks an ordered,
// task-type-specific list of fallback strategies: canned local guidance, a
// reduced-cost cloud path, a reassuring degraded message, and finally a
// terminal error response. Every path returns a usable Result; nothing here
// panics or propagates errors, and the manager never sleeps. Retry pacing is
// the caller's job via RetrySchedule.
package fallback
