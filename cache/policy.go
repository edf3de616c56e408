package cache

import (
	"fmt"
	"strings"
	"time"

	"github.com/promptable/taskops/task"
)

// defaultTTLs is the per-task-type TTL table. Types not listed use
// Config.DefaultTTL.
var defaultTTLs = map[task.Type]time.Duration{
	task.TypeHelp:           24 * time.Hour,
	task.TypeCalculation:    12 * time.Hour,
	task.TypeTextProcessing: 6 * time.Hour,
	task.TypeFileOperation:  30 * time.Minute,
	// System queries are never cached by policy; the TTL exists so a
	// deliberate direct store still expires quickly.
	task.TypeSystemQuery: 5 * time.Minute,
}

// timeSensitiveTypes answer from live system state; caching them would serve
// stale readings.
var timeSensitiveTypes = map[task.Type]bool{
	task.TypeSystemQuery: true,
}

// personalMarkers flag second-person or temporal phrasing. Outputs carrying
// them are likely personalized or time-bound and would go stale or leak
// across users if served from cache.
var personalMarkers = []string{
	"your ",
	"you're",
	"you are",
	"for you",
	"today",
	"tonight",
	"tomorrow",
	"right now",
	"currently",
	"as of",
}

// ttlFor returns the TTL for a task type: config override, then the default
// table, then Config.DefaultTTL.
func (c *ResponseCache) ttlFor(t task.Type) time.Duration {
	if ttl, ok := c.cfg.TTLs[t]; ok {
		return ttl
	}
	if ttl, ok := defaultTTLs[t]; ok {
		return ttl
	}
	return c.cfg.DefaultTTL
}

// shouldCache decides whether a successful result is cache-eligible. The
// second return value names the rejection reason for logging.
func (c *ResponseCache) shouldCache(input string, res task.Result) (bool, string) {
	if len(res.Output) > c.cfg.MaxOutputBytes {
		return false, fmt.Sprintf("output too large (%d bytes)", len(res.Output))
	}
	// An entry bigger than the post-eviction memory target could never be
	// made room for; admitting it would pin usage above the ceiling.
	if size := entrySize(input, res); float64(size) > memoryEvictTarget*float64(c.cfg.MaxMemoryBytes) {
		return false, fmt.Sprintf("entry too large for memory ceiling (%d bytes)", size)
	}
	if timeSensitiveTypes[res.Classification.Type] {
		return false, "time-sensitive task type"
	}
	output := strings.ToLower(res.Output)
	for _, marker := range personalMarkers {
		if strings.Contains(output, marker) {
			return false, "personalized output"
		}
	}
	return true, ""
}

// entrySize estimates an entry's memory footprint: payload strings plus a
// fixed overhead for the structs and bookkeeping.
func entrySize(input string, res task.Result) int64 {
	const overhead = 256

	size := int64(len(input)) + int64(len(res.Output)) + int64(len(res.Input)) + overhead
	for k, v := range res.Classification.Parameters {
		size += int64(len(k)) + int64(len(v))
	}
	return size
}
