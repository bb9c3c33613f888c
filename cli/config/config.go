package config

import (
	"fmt"
	"time"
)

// Config represents a jute.yaml configuration file.
// All values are optional and act as defaults for jute repl/exec flags.
// CLI flags always override config values.
type Config struct {
	ConnectionFile string   `yaml:"connection_file"`
	Username       string   `yaml:"username"`
	ExecTimeout    Duration `yaml:"exec_timeout"`
	PollInterval   Duration `yaml:"poll_interval"`
	Transcript     string   `yaml:"transcript"`
	LogLevel       string   `yaml:"log_level"`
	NoColor        bool     `yaml:"no_color"`
}

// Duration wraps time.Duration for YAML string parsing (e.g. "10s", "5m").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10s" or "5m30s".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}
