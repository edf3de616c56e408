package cache

import (
	"context"
	"sort"
	"time"
)

// memoryEvictTarget is the fraction of the memory ceiling to settle at after
// a pressure eviction, leaving headroom so stores do not thrash the pass.
const memoryEvictTarget = 0.8

// capacityEvictFraction is the share of MaxEntries trimmed by strict LRU
// order when the entry count reaches its cap.
const capacityEvictFraction = 0.2

// evictForLocked makes room for an incoming entry of the given size and
// returns how many entries were removed. Three passes, cheapest first:
//
//  1. all expired entries go unconditionally
//  2. under memory pressure, entries ranked by size × LRU staleness go until
//     usage settles at memoryEvictTarget of the ceiling, taking large,
//     rarely-used entries before small, hot ones
//  3. at the entry-count cap, the least-recently-used 20% go in strict order
func (c *ResponseCache) evictForLocked(ctx context.Context, incoming int64) int {
	total := 0

	if n := c.evictExpiredLocked(); n > 0 {
		total += n
		c.metrics.RecordEviction(ctx, "expired", int64(n))
	}

	if n := c.evictForMemoryLocked(incoming); n > 0 {
		total += n
		c.metrics.RecordEviction(ctx, "memory", int64(n))
	}

	if n := c.evictForCapacityLocked(); n > 0 {
		total += n
		c.metrics.RecordEviction(ctx, "capacity", int64(n))
	}

	c.evictions += uint64(total)
	return total
}

func (c *ResponseCache) evictExpiredLocked() int {
	now := time.Now()
	var victims []*entry
	for _, e := range c.entries {
		if e.expired(now) {
			victims = append(victims, e)
		}
	}
	for _, e := range victims {
		c.removeLocked(e)
	}
	return len(victims)
}

func (c *ResponseCache) evictForMemoryLocked(incoming int64) int {
	if c.bytes+incoming <= c.cfg.MaxMemoryBytes {
		return 0
	}

	target := int64(float64(c.cfg.MaxMemoryBytes) * memoryEvictTarget)

	// Staleness rank: 1 at the most-recently-used end, n at the LRU end.
	type scored struct {
		e     *entry
		score int64
	}
	ranked := make([]scored, 0, c.lru.Len())
	rank := int64(1)
	for elem := c.lru.Back(); elem != nil; elem = elem.Prev() {
		e := elem.Value.(*entry)
		ranked = append(ranked, scored{e: e, score: e.size * rank})
		rank++
	}
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	removed := 0
	for _, s := range ranked {
		if c.bytes+incoming <= target {
			break
		}
		c.removeLocked(s.e)
		removed++
	}
	return removed
}

func (c *ResponseCache) evictForCapacityLocked() int {
	if len(c.entries) < c.cfg.MaxEntries {
		return 0
	}

	n := int(float64(c.cfg.MaxEntries) * capacityEvictFraction)
	if n < 1 {
		n = 1
	}

	removed := 0
	for removed < n {
		elem := c.lru.Front()
		if elem == nil {
			break
		}
		c.removeLocked(elem.Value.(*entry))
		removed++
	}
	return removed
}
