package observe

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			name:    "missing service name",
			cfg:     Config{},
			wantErr: ErrMissingServiceName,
		},
		{
			name: "valid minimal",
			cfg:  Config{ServiceName: "taskops"},
		},
		{
			name: "invalid tracing exporter",
			cfg: Config{
				ServiceName: "taskops",
				Tracing:     TracingConfig{Enabled: true, Exporter: "carrier-pigeon"},
			},
			wantErr: ErrInvalidTracingExporter,
		},
		{
			name: "invalid sample pct",
			cfg: Config{
				ServiceName: "taskops",
				Tracing:     TracingConfig{Enabled: true, Exporter: "none", SamplePct: 1.5},
			},
			wantErr: ErrInvalidSamplePct,
		},
		{
			name: "invalid metrics exporter",
			cfg: Config{
				ServiceName: "taskops",
				Metrics:     MetricsConfig{Enabled: true, Exporter: "statsd"},
			},
			wantErr: ErrInvalidMetricsExporter,
		},
		{
			name: "invalid log level",
			cfg: Config{
				ServiceName: "taskops",
				Logging:     LoggingConfig{Enabled: true, Level: "loud"},
			},
			wantErr: ErrInvalidLogLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewObserver_Disabled(t *testing.T) {
	ctx := context.Background()

	obs, err := NewObserver(ctx, Config{ServiceName: "taskops"})
	if err != nil {
		t.Fatalf("NewObserver failed: %v", err)
	}

	// Everything should be usable no-ops.
	if obs.Tracer() == nil {
		t.Error("Tracer should not be nil")
	}
	if obs.Meter() == nil {
		t.Error("Meter should not be nil")
	}
	obs.Logger().Info(ctx, "should not panic")

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := obs.Shutdown(shutdownCtx); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
}

func TestNewObserver_MetricsInstruments(t *testing.T) {
	ctx := context.Background()

	obs, err := NewObserver(ctx, Config{
		ServiceName: "taskops",
		Metrics:     MetricsConfig{Enabled: true, Exporter: "none"},
	})
	if err != nil {
		t.Fatalf("NewObserver failed: %v", err)
	}
	defer obs.Shutdown(ctx)

	m, err := NewMetrics(obs.Meter())
	if err != nil {
		t.Fatalf("NewMetrics failed: %v", err)
	}

	// Smoke: recording must not panic.
	m.RecordLookup(ctx, "help", true)
	m.RecordStore(ctx, "help")
	m.RecordEviction(ctx, "expired", 3)
	m.RecordEviction(ctx, "memory", 0) // ignored
	m.RecordFallback(ctx, "file_operation", "local_only", true)
	m.RecordExecution(ctx, "calculation", 12*time.Millisecond, errors.New("boom"))
}

func TestTaskMeta_SpanName(t *testing.T) {
	if got := (TaskMeta{Type: "help"}).SpanName(); got != "task.exec.help" {
		t.Errorf("SpanName = %q", got)
	}
	if got := (TaskMeta{}).SpanName(); got != "task.exec.unknown" {
		t.Errorf("SpanName for empty meta = %q", got)
	}
}
