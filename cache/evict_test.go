package cache

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/promptable/taskops/task"
)

func TestEvictExpiredFirst(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TTLs = map[task.Type]time.Duration{
		task.TypeCalculation: 10 * time.Millisecond,
		task.TypeHelp:        time.Hour,
	}
	c := New(cfg)
	ctx := context.Background()

	c.Store(ctx, "doomed", newResult("doomed", task.TypeCalculation, "v"))
	c.Store(ctx, "durable", newResult("durable", task.TypeHelp, "v"))
	time.Sleep(20 * time.Millisecond)

	// Any store runs the expired pass before anything else.
	c.Store(ctx, "trigger", newResult("trigger", task.TypeHelp, "v"))

	c.mu.Lock()
	_, doomedAlive := c.entries[task.Key("doomed")]
	_, durableAlive := c.entries[task.Key("durable")]
	c.mu.Unlock()

	if doomedAlive {
		t.Error("expired entry should be removed by the eviction pass")
	}
	if !durableAlive {
		t.Error("live entry should survive the expired pass")
	}
}

func TestMemoryEviction_PrefersLargeStaleEntries(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxMemoryBytes = 8192
	c := New(cfg)
	ctx := context.Background()

	// One large, never-touched entry and several small, hot ones.
	c.Store(ctx, "large stale", newResult("large stale", task.TypeCalculation, strings.Repeat("x", 3000)))
	for i := 0; i < 4; i++ {
		input := fmt.Sprintf("small hot %d", i)
		c.Store(ctx, input, newResult(input, task.TypeCalculation, "tiny"))
	}
	for round := 0; round < 3; round++ {
		for i := 0; i < 4; i++ {
			c.Lookup(ctx, fmt.Sprintf("small hot %d", i))
		}
	}

	// Push past the ceiling to force a pressure pass.
	c.Store(ctx, "overflow", newResult("overflow", task.TypeCalculation, strings.Repeat("y", 5000)))

	if _, ok := c.Lookup(ctx, "large stale"); ok {
		t.Error("the large, stale entry should be the pressure victim")
	}
	for i := 0; i < 4; i++ {
		if _, ok := c.Lookup(ctx, fmt.Sprintf("small hot %d", i)); !ok {
			t.Errorf("small hot entry %d should survive the pressure pass", i)
		}
	}
	checkInvariant(t, c)
}

func TestMemoryEviction_SettlesBelowTarget(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxMemoryBytes = 10000
	c := New(cfg)
	ctx := context.Background()

	payload := strings.Repeat("z", 1500)
	for i := 0; i < 20; i++ {
		input := fmt.Sprintf("payload %d", i)
		c.Store(ctx, input, newResult(input, task.TypeCalculation, payload))
	}

	size := c.Statistics().SizeBytes
	if size > cfg.MaxMemoryBytes {
		t.Errorf("size %d above ceiling %d", size, cfg.MaxMemoryBytes)
	}
}

func TestStore_RejectsEntriesLargerThanMemoryCeiling(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxMemoryBytes = 4096
	c := New(cfg)
	ctx := context.Background()

	// No eviction pass could make room for this entry; admitting it would
	// pin usage above the ceiling until another store happened by.
	c.Store(ctx, "huge", newResult("huge", task.TypeCalculation, strings.Repeat("x", 8<<10)))

	stats := c.Statistics()
	if stats.Entries != 0 {
		t.Errorf("entries = %d, want 0; oversized entry must be rejected", stats.Entries)
	}
	if stats.SizeBytes != 0 {
		t.Errorf("size = %d bytes, want 0", stats.SizeBytes)
	}
	if stats.SizeBytes > cfg.MaxMemoryBytes {
		t.Errorf("size %d above ceiling %d", stats.SizeBytes, cfg.MaxMemoryBytes)
	}

	// An entry that fits under the post-eviction target is still admitted.
	c.Store(ctx, "modest", newResult("modest", task.TypeCalculation, strings.Repeat("y", 1000)))
	if c.Statistics().Entries != 1 {
		t.Error("a modest entry should still be cacheable")
	}
	checkInvariant(t, c)
}

func TestCapacityEviction_TrimsTwentyPercent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxEntries = 10
	c := New(cfg)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		input := fmt.Sprintf("filler %d", i)
		c.Store(ctx, input, newResult(input, task.TypeCalculation, "v"))
	}

	// The next store finds the cache at capacity and trims 20% by LRU order.
	c.Store(ctx, "one more", newResult("one more", task.TypeCalculation, "v"))

	stats := c.Statistics()
	if stats.Entries != 9 { // 10 - 2 trimmed + 1 inserted
		t.Errorf("entries = %d, want 9 after a 20%% trim plus insert", stats.Entries)
	}

	// The two oldest fillers were the victims.
	for i := 0; i < 2; i++ {
		if _, ok := c.Lookup(ctx, fmt.Sprintf("filler %d", i)); ok {
			t.Errorf("filler %d should have been trimmed", i)
		}
	}
	checkInvariant(t, c)
}
