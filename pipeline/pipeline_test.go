package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/promptable/taskops/cache"
	"github.com/promptable/taskops/fallback"
	"github.com/promptable/taskops/health"
	"github.com/promptable/taskops/resilience"
	"github.com/promptable/taskops/task"
)

// countingExecutor returns a fixed result and counts invocations.
func countingExecutor(res task.Result, err error, calls *atomic.Int64) Executor {
	return func(ctx context.Context, input string) (task.Result, error) {
		calls.Add(1)
		res.Input = input
		return res, err
	}
}

func okResult(taskType task.Type, output string) task.Result {
	return task.Result{
		Classification: task.Classification{Type: taskType, Confidence: 0.9, Route: task.RouteLocal},
		Route:          task.RouteLocal,
		Success:        true,
		Output:         output,
	}
}

func newProcessor(exec Executor, opts ...Option) *Processor {
	c := cache.New(cache.DefaultConfig())
	fb := fallback.NewManager(fallback.DefaultConfig())
	return New(exec, c, fb, opts...)
}

func TestProcess_CachesSuccessfulResults(t *testing.T) {
	var calls atomic.Int64
	p := newProcessor(countingExecutor(okResult(task.TypeCalculation, "12"), nil, &calls))
	defer p.Close()
	ctx := context.Background()

	first, err := p.Process(ctx, "what is 15% of 80")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if first.CacheHit {
		t.Error("first result should not be a cache hit")
	}

	second, err := p.Process(ctx, "What is 15% of 80")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if !second.CacheHit {
		t.Error("second result should come from cache")
	}
	if second.Output != "12" {
		t.Errorf("output = %q, want 12", second.Output)
	}
	if calls.Load() != 1 {
		t.Errorf("executor called %d times, want 1", calls.Load())
	}
}

func TestProcess_FailureGoesToFallback(t *testing.T) {
	var calls atomic.Int64
	p := newProcessor(countingExecutor(task.Result{}, task.ErrTimeout, &calls))
	defer p.Close()

	res, err := p.Process(context.Background(), "delete temp files")
	if err != nil {
		t.Fatalf("Process() error = %v; a successful fallback should swallow the cause", err)
	}
	if !res.Success {
		t.Fatal("fallback guidance should be a successful result")
	}
	if !strings.Contains(res.Output, "Finder") {
		t.Errorf("output = %q, want Finder guidance", res.Output)
	}
}

func TestProcess_CacheableFallbackIsReused(t *testing.T) {
	var calls atomic.Int64
	p := newProcessor(countingExecutor(task.Result{}, task.ErrTimeout, &calls))
	defer p.Close()
	ctx := context.Background()

	p.Process(ctx, "delete temp files")
	res, _ := p.Process(ctx, "delete temp files")

	// Canned file-operation guidance passes the caching policy, so the
	// second request never reaches the failing executor.
	if !res.CacheHit {
		t.Error("canned guidance should be served from cache on repeat")
	}
	if calls.Load() != 1 {
		t.Errorf("executor called %d times, want 1", calls.Load())
	}
}

func TestProcess_DegradedResponsesAreNotCached(t *testing.T) {
	var calls atomic.Int64
	p := newProcessor(countingExecutor(task.Result{}, task.ErrCloudUnavailable, &calls))
	defer p.Close()
	ctx := context.Background()

	// Text processing has no canned guidance; the fallback answer is a
	// time-sensitive degraded message that the policy refuses to cache.
	first, err := p.Process(ctx, "summarize my notes")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if !first.Success {
		t.Fatal("degraded response should still be a success")
	}

	p.Process(ctx, "summarize my notes")
	if calls.Load() != 2 {
		t.Errorf("executor called %d times, want 2; degraded answers must not be cached", calls.Load())
	}
}

func TestProcess_TerminalFallbackReturnsCause(t *testing.T) {
	cfg := fallback.DefaultConfig()
	cfg.MaxRetryAttempts = 1
	c := cache.New(cache.DefaultConfig())
	fb := fallback.NewManager(cfg)

	var calls atomic.Int64
	p := New(countingExecutor(task.Result{}, task.ErrCloudUnavailable, &calls), c, fb)
	defer p.Close()
	ctx := context.Background()

	// First failure for this input burns the attempt budget.
	p.Process(ctx, "summarize my notes")

	res, err := p.Process(ctx, "summarize my notes")
	if !errors.Is(err, task.ErrCloudUnavailable) {
		t.Errorf("err = %v, want the executor's cause", err)
	}
	if res.Success {
		t.Error("terminal fallback should report failure")
	}
	if !strings.Contains(res.Output, "You can try:") {
		t.Errorf("terminal output missing recovery block: %q", res.Output)
	}
}

func TestProcess_UnsuccessfulResultWithoutError(t *testing.T) {
	var calls atomic.Int64
	exec := countingExecutor(task.Result{
		Classification: task.Classification{Type: task.TypeWebQuery},
		Success:        false,
		Err:            task.ErrInvalidCloudResponse,
	}, nil, &calls)
	p := newProcessor(exec)
	defer p.Close()

	res, err := p.Process(context.Background(), "search for pasta recipes")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if !res.Success {
		t.Error("fallback should degrade an unsuccessful executor result")
	}
}

func TestProcess_BreakerShortCircuits(t *testing.T) {
	var calls atomic.Int64
	b := resilience.NewBreaker(resilience.BreakerConfig{TripThreshold: 2})
	p := newProcessor(countingExecutor(task.Result{}, task.ErrCloudUnavailable, &calls), WithBreaker(b))
	defer p.Close()
	ctx := context.Background()

	// Distinct inputs so neither the cache nor failure history interferes.
	p.Process(ctx, "summarize chapter one")
	p.Process(ctx, "summarize chapter two")
	p.Process(ctx, "summarize chapter three")
	p.Process(ctx, "summarize chapter four")

	if calls.Load() != 2 {
		t.Errorf("executor called %d times, want 2; open breaker must skip it", calls.Load())
	}
	if b.State() != resilience.StateOpen {
		t.Errorf("breaker state = %s, want open", b.State())
	}

	// Short-circuited requests still get a usable answer.
	res, _ := p.Process(ctx, "summarize chapter five")
	if res.Output == "" {
		t.Error("short-circuited request should still produce output")
	}
}

func TestHealth(t *testing.T) {
	p := newProcessor(countingExecutor(okResult(task.TypeHelp, "hi"), nil, new(atomic.Int64)))
	defer p.Close()
	ctx := context.Background()

	agg := p.Health()
	results := agg.CheckAll(ctx)

	for _, name := range []string{"cache", "fallback", "memory"} {
		if _, ok := results[name]; !ok {
			t.Errorf("missing %q health result", name)
		}
	}
	if status := agg.OverallStatus(results); status != health.StatusHealthy {
		t.Errorf("overall = %s, want healthy on a fresh processor", status)
	}
}

func TestStartClose(t *testing.T) {
	p := newProcessor(countingExecutor(okResult(task.TypeHelp, "hi"), nil, new(atomic.Int64)))

	p.Start()
	if err := p.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
