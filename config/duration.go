package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML as either a Go
// duration string ("90s", "5m", "24h") or a bare number of seconds.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	switch node.Tag {
	case "!!int", "!!float":
		var seconds float64
		if err := node.Decode(&seconds); err != nil {
			return fmt.Errorf("config: invalid duration %q: %w", node.Value, err)
		}
		*d = Duration(seconds * float64(time.Second))
		return nil
	default:
		var text string
		if err := node.Decode(&text); err != nil {
			return fmt.Errorf("config: invalid duration %q: %w", node.Value, err)
		}
		parsed, err := time.ParseDuration(text)
		if err != nil {
			return fmt.Errorf("config: invalid duration %q: %w", text, err)
		}
		*d = Duration(parsed)
		return nil
	}
}
