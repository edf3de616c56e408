package resilience

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/promptable/taskops/task"
)

// State is the breaker state.
type State int

const (
	// StateClosed lets all requests through.
	StateClosed State = iota
	// StateOpen rejects all requests without attempting them.
	StateOpen
	// StateHalfOpen lets a limited number of probes through after cooldown.
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerConfig configures a Breaker.
type BreakerConfig struct {
	// TripThreshold is how many consecutive counted failures open the
	// breaker. Default: 5.
	TripThreshold int

	// Cooldown is how long the breaker stays open before probing.
	// Default: 30s.
	Cooldown time.Duration

	// HalfOpenProbes is how many requests may run concurrently while
	// half-open. Default: 1.
	HalfOpenProbes int

	// OnStateChange is called on every transition, with the breaker lock
	// held; keep it fast.
	OnStateChange func(from, to State)

	// IsFailure decides whether an executor error counts toward tripping.
	// The default counts the transient cloud taxonomy (unavailable,
	// timeout, rate limited, invalid response) and ignores everything
	// else, so a user's malformed request can't open the breaker.
	IsFailure func(err error) bool
}

func defaultIsFailure(err error) bool {
	var rate *task.RateLimitError
	return errors.Is(err, task.ErrCloudUnavailable) ||
		errors.Is(err, task.ErrTimeout) ||
		errors.Is(err, task.ErrInvalidCloudResponse) ||
		errors.As(err, &rate)
}

// Breaker is a circuit breaker for the cloud task route.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Errors: Do returns ErrBreakerOpen without running the operation when
//   the breaker is open; otherwise it returns the operation's result and
//   error unchanged.
type Breaker struct {
	cfg BreakerConfig

	mu          sync.Mutex
	state       State
	failures    int
	lastFailure time.Time
	probes      int
}

// NewBreaker creates a breaker in the closed state.
func NewBreaker(cfg BreakerConfig) *Breaker {
	if cfg.TripThreshold <= 0 {
		cfg.TripThreshold = 5
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 30 * time.Second
	}
	if cfg.HalfOpenProbes <= 0 {
		cfg.HalfOpenProbes = 1
	}
	if cfg.IsFailure == nil {
		cfg.IsFailure = defaultIsFailure
	}
	return &Breaker{cfg: cfg, state: StateClosed}
}

// Do runs op through the breaker and returns its result.
func (b *Breaker) Do(ctx context.Context, op func(context.Context) (task.Result, error)) (task.Result, error) {
	if err := b.admit(); err != nil {
		return task.Result{}, err
	}

	res, err := op(ctx)
	b.settle(err)
	return res, err
}

// State returns the current state, promoting open to half-open when the
// cooldown has elapsed.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stateLocked()
}

// Reset forces the breaker closed and clears the failure count.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	from := b.state
	b.state = StateClosed
	b.failures = 0
	b.probes = 0
	if from != StateClosed && b.cfg.OnStateChange != nil {
		b.cfg.OnStateChange(from, StateClosed)
	}
}

// Snapshot is a point-in-time view of the breaker.
type Snapshot struct {
	State       State
	Failures    int
	LastFailure time.Time
}

// Snapshot returns the breaker's current state and counters.
func (b *Breaker) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	return Snapshot{
		State:       b.stateLocked(),
		Failures:    b.failures,
		LastFailure: b.lastFailure,
	}
}

func (b *Breaker) admit() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.stateLocked() {
	case StateOpen:
		return ErrBreakerOpen
	case StateHalfOpen:
		if b.probes >= b.cfg.HalfOpenProbes {
			return ErrBreakerOpen
		}
		b.probes++
	}
	return nil
}

func (b *Breaker) settle(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	failed := b.cfg.IsFailure(err)
	from := b.state

	switch b.state {
	case StateClosed:
		if failed {
			b.failures++
			b.lastFailure = time.Now()
			if b.failures >= b.cfg.TripThreshold {
				b.state = StateOpen
			}
		} else {
			b.failures = 0
		}

	case StateHalfOpen:
		if failed {
			// Probe failed; restart the cooldown.
			b.lastFailure = time.Now()
			b.state = StateOpen
		} else {
			b.state = StateClosed
			b.failures = 0
		}
	}

	if from != b.state && b.cfg.OnStateChange != nil {
		b.cfg.OnStateChange(from, b.state)
	}
}

func (b *Breaker) stateLocked() State {
	if b.state == StateOpen && time.Since(b.lastFailure) >= b.cfg.Cooldown {
		b.state = StateHalfOpen
		b.probes = 0
		if b.cfg.OnStateChange != nil {
			b.cfg.OnStateChange(StateOpen, StateHalfOpen)
		}
	}
	return b.state
}
