package fallback

import (
	"context"
	"sync"
	"time"

	"github.com/promptable/taskops/observe"
	"github.com/promptable/taskops/task"
)

// Config holds the construction-time parameters of the fallback manager.
type Config struct {
	// MaxRetryAttempts is how many failures per input are absorbed with
	// fallback strategies before every further call returns the terminal
	// error response. Default: 3.
	MaxRetryAttempts int

	// RecentWindow is the lookback for HasRecentFailures. Default: 10m.
	RecentWindow time.Duration

	// MaxHistory caps the number of tracked failure records; the record
	// with the oldest last failure is pruned to admit a new one.
	// Default: 1000.
	MaxHistory int
}

// DefaultConfig returns the default fallback configuration.
func DefaultConfig() Config {
	return Config{
		MaxRetryAttempts: 3,
		RecentWindow:     10 * time.Minute,
		MaxHistory:       1000,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.MaxRetryAttempts <= 0 {
		c.MaxRetryAttempts = def.MaxRetryAttempts
	}
	if c.RecentWindow <= 0 {
		c.RecentWindow = def.RecentWindow
	}
	if c.MaxHistory <= 0 {
		c.MaxHistory = def.MaxHistory
	}
	return c
}

// failureRecord is the per-input failure bookkeeping. One record per distinct
// content key; attempts only grow until the history is cleared.
type failureRecord struct {
	key          string
	firstFailure time.Time
	lastFailure  time.Time
	attempts     int
	lastErr      error
}

// Manager absorbs executor failures and produces best-effort responses.
//
// Contract:
// - Concurrency: safe for concurrent use; all state sits behind one mutex.
// - Errors: HandleFailure always returns a Result, never an error or panic.
type Manager struct {
	cfg     Config
	log     observe.Logger
	metrics observe.Metrics

	mu      sync.Mutex
	records map[string]*failureRecord
	byError map[string]uint64
	total   uint64
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger attaches a structured logger.
func WithLogger(l observe.Logger) Option {
	return func(m *Manager) {
		m.log = l.WithComponent("fallback")
	}
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(mx observe.Metrics) Option {
	return func(m *Manager) {
		m.metrics = mx
	}
}

// NewManager creates a fallback manager.
func NewManager(cfg Config, opts ...Option) *Manager {
	m := &Manager{
		cfg:     cfg.withDefaults(),
		log:     observe.NopLogger(),
		metrics: observe.NopMetrics(),
		records: make(map[string]*failureRecord),
		byError: make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// HandleFailure records the failure and produces the most useful possible
// response without the primary executor. Inputs already at the retry limit
// get the terminal error response without attempting any strategy.
func (m *Manager) HandleFailure(ctx context.Context, input string, cause error) task.Result {
	key := task.Key(input)
	now := time.Now()
	kind := errorKind(cause)

	m.mu.Lock()
	rec, ok := m.records[key]
	exhausted := ok && rec.attempts >= m.cfg.MaxRetryAttempts
	if !ok {
		m.pruneLocked()
		rec = &failureRecord{key: key, firstFailure: now}
		m.records[key] = rec
	}
	rec.attempts++
	rec.lastFailure = now
	rec.lastErr = cause
	attempts := rec.attempts
	m.total++
	m.byError[kind]++
	m.mu.Unlock()

	cls := classifyLocal(input)

	if exhausted {
		m.log.Warn(ctx, "retries exhausted, returning terminal response",
			observe.Field{Key: "attempts", Value: attempts},
			observe.Field{Key: "error.kind", Value: kind},
		)
		m.metrics.RecordFallback(ctx, string(cls.Type), string(StrategyErrorResponse), false)
		return m.terminalResult(input, cls, cause)
	}

	for _, strategy := range chainFor(cls.Type) {
		res, ok := m.attempt(strategy, input, cls, cause)
		if !ok {
			continue
		}
		m.log.Info(ctx, "fallback strategy produced a response",
			observe.Field{Key: "strategy", Value: string(strategy)},
			observe.Field{Key: "task.type", Value: string(cls.Type)},
			observe.Field{Key: "attempts", Value: attempts},
		)
		m.metrics.RecordFallback(ctx, string(cls.Type), string(strategy), res.Success)
		return res
	}

	// Every chain ends in the error-response strategy, so reaching this
	// point means the chain table is malformed; answer terminally anyway.
	m.metrics.RecordFallback(ctx, string(cls.Type), string(StrategyErrorResponse), false)
	return m.terminalResult(input, cls, cause)
}

// HasRecentFailures reports whether the input failed within the recent
// window. Callers may use it to short-circuit retries proactively.
func (m *Manager) HasRecentFailures(input string) bool {
	key := task.Key(input)

	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[key]
	return ok && time.Since(rec.lastFailure) <= m.cfg.RecentWindow
}

// ClearFailureHistory drops all failure records and counters.
func (m *Manager) ClearFailureHistory() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = make(map[string]*failureRecord)
	m.byError = make(map[string]uint64)
	m.total = 0
}

// recentStatsWindow is the lookback used by Statistics.RecentFailures.
const recentStatsWindow = time.Hour

// Statistics is a point-in-time snapshot of failure history.
type Statistics struct {
	// TotalFailures counts every recorded failure since construction or
	// the last ClearFailureHistory.
	TotalFailures uint64

	// UniqueInputs is the number of distinct inputs with failure records.
	UniqueInputs int

	// RecentFailures counts records whose last failure is under an hour old.
	RecentFailures int

	// ByErrorType breaks failures down by error kind.
	ByErrorType map[string]uint64
}

// FailureStatistics returns a snapshot of the failure history.
func (m *Manager) FailureStatistics() Statistics {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := Statistics{
		TotalFailures: m.total,
		UniqueInputs:  len(m.records),
		ByErrorType:   make(map[string]uint64, len(m.byError)),
	}
	for kind, n := range m.byError {
		stats.ByErrorType[kind] = n
	}

	cutoff := time.Now().Add(-recentStatsWindow)
	for _, rec := range m.records {
		if rec.lastFailure.After(cutoff) {
			stats.RecentFailures++
		}
	}
	return stats
}

// pruneLocked makes room for a new record by dropping the one with the
// oldest last failure once the history is full.
func (m *Manager) pruneLocked() {
	if len(m.records) < m.cfg.MaxHistory {
		return
	}

	var oldest *failureRecord
	for _, rec := range m.records {
		if oldest == nil || rec.lastFailure.Before(oldest.lastFailure) {
			oldest = rec
		}
	}
	if oldest != nil {
		delete(m.records, oldest.key)
	}
}
