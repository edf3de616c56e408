// Package health provides health status reporting for pipeline components.
//
// It defines the healthy/degraded/unhealthy vocabulary, a Checker interface,
// a process memory checker, and an aggregator that combines component checks
// into an overall status. The cache and fallback packages each expose a
// Checker; there is no HTTP surface, health is consumed in-process.
package health
