// Package config implements the YAML-backed configuration shared by every
// hydra subcommand, adapted from the teacher's Default/Load/Save/Validate
// pattern (internal/config/config.go) and trimmed to this application's
// fields.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every setting a hydra subcommand's PersistentPreRunE loads
// before dispatching to the chosen application.
type Config struct {
	Workers        int           `yaml:"workers"`
	QueueCapacity  int           `yaml:"queue_capacity"`
	CommitInterval time.Duration `yaml:"commit_interval"`
	PrintInterval  time.Duration `yaml:"print_interval"`
	HashAlgorithm  string        `yaml:"hash_algorithm"`
	LogLevel       string        `yaml:"log_level"`
	LogDir         string        `yaml:"log_dir"`
	ScanRate       int           `yaml:"scan_rate"`
}

// Default returns the built-in configuration, matching the values baked
// into the distilled spec (4 workers, 2048-capacity queues, 5s commits,
// 1s status redraws).
func Default() *Config {
	return &Config{
		Workers:        4,
		QueueCapacity:  2048,
		CommitInterval: 5 * time.Second,
		PrintInterval:  time.Second,
		HashAlgorithm:  "sha512",
		LogLevel:       "info",
		LogDir:         "",
		ScanRate:       0,
	}
}

// Load reads a YAML config file, overlaying it on Default(). A missing
// file is not an error: it simply means "use defaults", following the
// teacher's tolerant Load behavior.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, creating parent directories as needed.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.QueueCapacity <= 0 {
		return fmt.Errorf("queue_capacity must be positive, got %d", c.QueueCapacity)
	}
	if c.CommitInterval <= 0 {
		return fmt.Errorf("commit_interval must be positive, got %s", c.CommitInterval)
	}
	if c.PrintInterval <= 0 {
		return fmt.Errorf("print_interval must be positive, got %s", c.PrintInterval)
	}
	switch c.HashAlgorithm {
	case "sha512", "blake3":
	default:
		return fmt.Errorf("hash_algorithm must be sha512 or blake3, got %q", c.HashAlgorithm)
	}
	return nil
}
