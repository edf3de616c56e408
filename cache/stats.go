package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/promptable/taskops/health"
)

// Statistics is a point-in-time snapshot of cache activity.
type Statistics struct {
	// Entries is the live entry count.
	Entries int

	// Hits and Misses count lookups since construction or the last Clear.
	Hits   uint64
	Misses uint64

	// HitRate is Hits / (Hits + Misses), 0 when there were no lookups.
	HitRate float64

	// Evictions counts entries removed by any eviction pass.
	Evictions uint64

	// SizeBytes is the estimated memory footprint of all entries.
	SizeBytes int64

	// OldestEntry and NewestEntry are creation times; zero when empty.
	OldestEntry time.Time
	NewestEntry time.Time
}

// Statistics returns a snapshot of the cache counters.
func (c *ResponseCache) Statistics() Statistics {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := Statistics{
		Entries:   len(c.entries),
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		SizeBytes: c.bytes,
	}
	if total := c.hits + c.misses; total > 0 {
		stats.HitRate = float64(c.hits) / float64(total)
	}
	for _, e := range c.entries {
		if stats.OldestEntry.IsZero() || e.createdAt.Before(stats.OldestEntry) {
			stats.OldestEntry = e.createdAt
		}
		if e.createdAt.After(stats.NewestEntry) {
			stats.NewestEntry = e.createdAt
		}
	}
	return stats
}

// Health thresholds: hit rate and memory pressure decide the status. A cache
// with no lookups yet is healthy; it has had no chance to earn a hit rate.
const (
	healthyHitRate  = 0.7
	degradedHitRate = 0.4
	healthyMemory   = 0.8
	degradedMemory  = 0.9
)

// HealthStatus derives the cache's health from hit rate and memory pressure.
func (c *ResponseCache) HealthStatus() health.Status {
	stats := c.Statistics()

	memRatio := float64(stats.SizeBytes) / float64(c.cfg.MaxMemoryBytes)

	if stats.Hits+stats.Misses == 0 {
		if memRatio < healthyMemory {
			return health.StatusHealthy
		}
		return health.StatusDegraded
	}

	switch {
	case stats.HitRate > healthyHitRate && memRatio < healthyMemory:
		return health.StatusHealthy
	case stats.HitRate > degradedHitRate && memRatio < degradedMemory:
		return health.StatusDegraded
	default:
		return health.StatusUnhealthy
	}
}

// Checker exposes the cache as a health.Checker for aggregation.
func (c *ResponseCache) Checker() health.Checker {
	return health.NewCheckerFunc("cache", func(ctx context.Context) health.Result {
		stats := c.Statistics()
		status := c.HealthStatus()

		details := map[string]any{
			"entries":    stats.Entries,
			"hit_rate":   stats.HitRate,
			"size_bytes": stats.SizeBytes,
			"evictions":  stats.Evictions,
		}

		msg := fmt.Sprintf("hit rate %.2f, %d entries", stats.HitRate, stats.Entries)
		switch status {
		case health.StatusHealthy:
			return health.Healthy(msg).WithDetails(details)
		case health.StatusDegraded:
			return health.Degraded(msg).WithDetails(details)
		default:
			return health.Unhealthy(msg, health.ErrCheckFailed).WithDetails(details)
		}
	})
}
