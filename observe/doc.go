// Package observe provides observability primitives for the task pipeline.
//
// It is a pure instrumentation library: no execution, no transport, no I/O
// beyond exporter setup. The cache, fallback, and pipeline packages accept a
// Logger and Metrics and run with no-op implementations by default.
package observe
