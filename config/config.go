package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/promptable/taskops/cache"
	"github.com/promptable/taskops/fallback"
	"github.com/promptable/taskops/observe"
	"github.com/promptable/taskops/task"
)

// Config is the assembled module configuration, ready to hand to the
// component constructors.
type Config struct {
	Cache    cache.Config
	Fallback fallback.Config
	Observe  observe.Config
}

// fileConfig mirrors the YAML layout. Every field is optional; zero values
// fall back to the component defaults.
type fileConfig struct {
	Cache struct {
		MaxEntries     int                 `yaml:"max_entries"`
		MaxMemoryBytes int64               `yaml:"max_memory_bytes"`
		MaxOutputBytes int                 `yaml:"max_output_bytes"`
		DefaultTTL     Duration            `yaml:"default_ttl"`
		SweepInterval  Duration            `yaml:"sweep_interval"`
		TTLs           map[string]Duration `yaml:"ttls"`
	} `yaml:"cache"`

	Fallback struct {
		MaxRetryAttempts int      `yaml:"max_retry_attempts"`
		RecentWindow     Duration `yaml:"recent_window"`
		MaxHistory       int      `yaml:"max_history"`
	} `yaml:"fallback"`

	Observe struct {
		ServiceName string `yaml:"service_name"`
		Version     string `yaml:"version"`
		Tracing     struct {
			Enabled   bool    `yaml:"enabled"`
			Exporter  string  `yaml:"exporter"`
			SamplePct float64 `yaml:"sample_pct"`
		} `yaml:"tracing"`
		Metrics struct {
			Enabled  bool   `yaml:"enabled"`
			Exporter string `yaml:"exporter"`
		} `yaml:"metrics"`
		Logging struct {
			Enabled bool   `yaml:"enabled"`
			Level   string `yaml:"level"`
		} `yaml:"logging"`
	} `yaml:"observe"`
}

// Default returns the configuration used when no file is given: component
// defaults plus a quiet observe setup (logging on, exporters off).
func Default() *Config {
	return &Config{
		Cache:    cache.DefaultConfig(),
		Fallback: fallback.DefaultConfig(),
		Observe: observe.Config{
			ServiceName: "taskops",
			Logging:     observe.LoggingConfig{Enabled: true, Level: "info"},
		},
	}
}

// Load reads a YAML config file and merges it over the defaults. A missing
// file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	applyFile(cfg, &fc)
	if err := cfg.Observe.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// applyFile overlays the non-zero file values onto the defaults.
func applyFile(cfg *Config, fc *fileConfig) {
	if fc.Cache.MaxEntries > 0 {
		cfg.Cache.MaxEntries = fc.Cache.MaxEntries
	}
	if fc.Cache.MaxMemoryBytes > 0 {
		cfg.Cache.MaxMemoryBytes = fc.Cache.MaxMemoryBytes
	}
	if fc.Cache.MaxOutputBytes > 0 {
		cfg.Cache.MaxOutputBytes = fc.Cache.MaxOutputBytes
	}
	if fc.Cache.DefaultTTL > 0 {
		cfg.Cache.DefaultTTL = fc.Cache.DefaultTTL.Std()
	}
	if fc.Cache.SweepInterval > 0 {
		cfg.Cache.SweepInterval = fc.Cache.SweepInterval.Std()
	}
	if len(fc.Cache.TTLs) > 0 {
		cfg.Cache.TTLs = make(map[task.Type]time.Duration, len(fc.Cache.TTLs))
		for name, d := range fc.Cache.TTLs {
			cfg.Cache.TTLs[task.Type(name)] = d.Std()
		}
	}

	if fc.Fallback.MaxRetryAttempts > 0 {
		cfg.Fallback.MaxRetryAttempts = fc.Fallback.MaxRetryAttempts
	}
	if fc.Fallback.RecentWindow > 0 {
		cfg.Fallback.RecentWindow = fc.Fallback.RecentWindow.Std()
	}
	if fc.Fallback.MaxHistory > 0 {
		cfg.Fallback.MaxHistory = fc.Fallback.MaxHistory
	}

	if fc.Observe.ServiceName != "" {
		cfg.Observe.ServiceName = fc.Observe.ServiceName
	}
	if fc.Observe.Version != "" {
		cfg.Observe.Version = fc.Observe.Version
	}
	cfg.Observe.Tracing = observe.TracingConfig{
		Enabled:   fc.Observe.Tracing.Enabled,
		Exporter:  fc.Observe.Tracing.Exporter,
		SamplePct: fc.Observe.Tracing.SamplePct,
	}
	cfg.Observe.Metrics = observe.MetricsConfig{
		Enabled:  fc.Observe.Metrics.Enabled,
		Exporter: fc.Observe.Metrics.Exporter,
	}
	if fc.Observe.Logging.Enabled || fc.Observe.Logging.Level != "" {
		cfg.Observe.Logging = observe.LoggingConfig{
			Enabled: fc.Observe.Logging.Enabled,
			Level:   fc.Observe.Logging.Level,
		}
	}
}
