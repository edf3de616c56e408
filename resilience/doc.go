// Package resilience guards the cloud execution route with a circuit
// breaker.
//
// Repeated cloud failures (unavailable, timed out, rate limited, malformed
// responses) trip the breaker so the pipeline stops paying cloud latency for
// requests that will fail anyway and hands them to the fallback layer
// immediately. After a cooldown the breaker lets a limited number of probe
// requests through to test recovery.
package resilience
