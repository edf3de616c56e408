package cache

import (
	"context"
	"time"

	"github.com/promptable/taskops/observe"
)

// StartSweeper launches the background sweep loop that proactively removes
// expired entries every Config.SweepInterval, so lookups rarely pay the
// expiry cost. Idempotent; pair with Close.
func (c *ResponseCache) StartSweeper() {
	c.sweepOnce.Do(func() {
		c.sweeping.Store(true)
		go c.sweepLoop()
	})
}

// Close stops the background sweeper, if started, and waits for the current
// pass to finish. Idempotent. The cache itself remains usable after Close;
// expiry falls back to lazy enforcement.
func (c *ResponseCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopCh)
	})
	if c.sweeping.Load() {
		<-c.doneCh
	}
	return nil
}

func (c *ResponseCache) sweepLoop() {
	defer close(c.doneCh)

	ticker := time.NewTicker(c.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

// sweep removes all currently expired entries in one bounded pass.
func (c *ResponseCache) sweep() {
	ctx := context.Background()

	c.mu.Lock()
	n := c.evictExpiredLocked()
	if n > 0 {
		c.evictions += uint64(n)
	}
	remaining := len(c.entries)
	c.mu.Unlock()

	if n > 0 {
		c.metrics.RecordEviction(ctx, "expired", int64(n))
		c.log.Debug(ctx, "sweep removed expired entries",
			observe.Field{Key: "removed", Value: n},
			observe.Field{Key: "remaining", Value: remaining},
		)
	}
}
