// Package sdkconfig holds the small set of knobs the CLI and long-running
// consumers want to override: default test/dump paths, log level, and the
// event-wait timeout. Structured like the teacher's layered egg config —
// a DefaultConfig() baseline that a YAML file can override field-by-field.
package sdkconfig

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the client's tunable defaults. Any zero-valued field after
// Load falls back to DefaultConfig's value.
type Config struct {
	TestFile     string        `yaml:"test_file,omitempty"`
	DumpFile     string        `yaml:"dump_file,omitempty"`
	LogLevel     string        `yaml:"log_level,omitempty"`
	LogFile      string        `yaml:"log_file,omitempty"`
	EventTimeout time.Duration `yaml:"event_timeout,omitempty"`
}

// DefaultConfig matches the reference protocol's bounded event wait of
// roughly 32ms and a warn-level logger.
func DefaultConfig() Config {
	return Config{
		LogLevel:     "warn",
		EventTimeout: 32 * time.Millisecond,
	}
}

// Load reads a YAML file at path and overlays any fields it sets onto
// DefaultConfig. A missing file is not an error — it just yields defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read sdk config %q: %w", path, err)
	}
	var override Config
	if err := yaml.Unmarshal(data, &override); err != nil {
		return cfg, fmt.Errorf("parse sdk config %q: %w", path, err)
	}
	mergeOverride(&cfg, override)
	return cfg, nil
}

func mergeOverride(cfg *Config, override Config) {
	if override.TestFile != "" {
		cfg.TestFile = override.TestFile
	}
	if override.DumpFile != "" {
		cfg.DumpFile = override.DumpFile
	}
	if override.LogLevel != "" {
		cfg.LogLevel = override.LogLevel
	}
	if override.LogFile != "" {
		cfg.LogFile = override.LogFile
	}
	if override.EventTimeout != 0 {
		cfg.EventTimeout = override.EventTimeout
	}
}
