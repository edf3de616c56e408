package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusHealthy, "healthy"},
		{StatusDegraded, "degraded"},
		{StatusUnhealthy, "unhealthy"},
		{Status(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestResultConstructors(t *testing.T) {
	r := Healthy("ok")
	if r.Status != StatusHealthy || r.Message != "ok" || r.Timestamp.IsZero() {
		t.Errorf("Healthy produced %+v", r)
	}

	r = Degraded("slow")
	if r.Status != StatusDegraded {
		t.Errorf("Degraded produced status %v", r.Status)
	}

	cause := errors.New("down")
	r = Unhealthy("broken", cause)
	if r.Status != StatusUnhealthy || !errors.Is(r.Error, cause) {
		t.Errorf("Unhealthy produced %+v", r)
	}

	r = Healthy("ok").WithDetails(map[string]any{"entries": 5})
	if r.Details["entries"] != 5 {
		t.Error("WithDetails did not attach details")
	}
}

func TestCheckerFunc(t *testing.T) {
	checker := NewCheckerFunc("stub", func(ctx context.Context) Result {
		return Healthy("stub ok")
	})

	if checker.Name() != "stub" {
		t.Errorf("Name = %q", checker.Name())
	}
	if got := checker.Check(context.Background()); got.Status != StatusHealthy {
		t.Errorf("Check status = %v", got.Status)
	}
}

func TestMemoryChecker(t *testing.T) {
	checker := NewMemoryChecker(MemoryCheckerConfig{})
	if checker.Name() != "memory" {
		t.Errorf("Name = %q", checker.Name())
	}

	result := checker.Check(context.Background())
	if result.Status == StatusUnhealthy {
		t.Errorf("fresh test process should not be memory-critical: %s", result.Message)
	}
	if result.Details == nil {
		t.Error("expected details on memory result")
	}
}

func TestMemoryChecker_ThresholdDefaults(t *testing.T) {
	// Out-of-range thresholds fall back to defaults.
	checker := NewMemoryChecker(MemoryCheckerConfig{
		WarningThreshold:  2.0,
		CriticalThreshold: -1,
	})
	if checker.config.WarningThreshold != 0.8 {
		t.Errorf("WarningThreshold = %v", checker.config.WarningThreshold)
	}
	if checker.config.CriticalThreshold != 0.95 {
		t.Errorf("CriticalThreshold = %v", checker.config.CriticalThreshold)
	}
}

func TestMemoryChecker_CancelledContext(t *testing.T) {
	checker := NewMemoryChecker(MemoryCheckerConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := checker.Check(ctx)
	if result.Status != StatusUnhealthy {
		t.Errorf("cancelled check should be unhealthy, got %v", result.Status)
	}
}

func TestAggregator_CheckAll(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{Timeout: time.Second})

	agg.Register("a", NewCheckerFunc("a", func(ctx context.Context) Result {
		return Healthy("fine")
	}))
	agg.Register("b", NewCheckerFunc("b", func(ctx context.Context) Result {
		return Degraded("meh")
	}))

	results := agg.CheckAll(context.Background())
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if agg.OverallStatus(results) != StatusDegraded {
		t.Errorf("overall = %v, want degraded", agg.OverallStatus(results))
	}
}

func TestAggregator_UnhealthyDominates(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{})
	results := map[string]Result{
		"a": Healthy("ok"),
		"b": Degraded("meh"),
		"c": Unhealthy("broken", ErrCheckFailed),
	}
	if agg.OverallStatus(results) != StatusUnhealthy {
		t.Error("unhealthy should dominate")
	}
}

func TestAggregator_EmptyIsHealthy(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{})
	if agg.OverallStatus(agg.CheckAll(context.Background())) != StatusHealthy {
		t.Error("no checkers should mean healthy")
	}
}

func TestAggregator_UnknownChecker(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{})
	if _, err := agg.Check(context.Background(), "nope"); !errors.Is(err, ErrCheckerNotFound) {
		t.Errorf("err = %v, want ErrCheckerNotFound", err)
	}
}

func TestAggregator_Timeout(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{Timeout: 20 * time.Millisecond})

	agg.Register("slow", NewCheckerFunc("slow", func(ctx context.Context) Result {
		select {
		case <-time.After(time.Second):
			return Healthy("too late")
		case <-ctx.Done():
			return Unhealthy("cancelled", ctx.Err())
		}
	}))

	results := agg.CheckAll(context.Background())
	if results["slow"].Status != StatusUnhealthy {
		t.Errorf("slow check should time out unhealthy, got %v", results["slow"].Status)
	}
}
