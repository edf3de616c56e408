// Package pipeline orchestrates task processing: cache lookup, primary
// execution behind an optional circuit breaker, and fallback on failure.
//
// The primary executor (classification plus local or cloud model execution)
// lives outside this module and is injected as a function. The pipeline's
// promise is that Process always returns a usable Result: cached answers
// come back in microseconds, fresh answers are cached when the caching
// policy allows, and failures surface as guidance rather than errors.
package pipeline
