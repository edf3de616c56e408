// Package cache provides the content-addressed response cache for the task
// pipeline.
//
// Inputs are normalized and keyed by stable SHA-256, entries carry
// per-task-type TTLs, and eviction is hybrid: expired entries go first, then
// large-and-stale entries under memory pressure, then a strict LRU trim when
// the entry count reaches its cap. All operations are best-effort and never
// surface internal errors to callers; a miss is indistinguishable from "not
// yet computed".
package cache
