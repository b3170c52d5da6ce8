package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// OutputFormat selects how command results are printed.
type OutputFormat string

const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
	OutputYAML OutputFormat = "yaml"
)

// Default configuration values.
const (
	DefaultServer  = "http://localhost:8080"
	DefaultTimeout = 30 * time.Second
	configFile     = "config.yaml"
)

// Config is the feedtrackctl configuration.
type Config struct {
	Server  string
	Timeout time.Duration
	Output  OutputFormat
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server:  DefaultServer,
		Timeout: DefaultTimeout,
		Output:  OutputText,
	}
}

// Validate checks the output format and server URL.
func (c *Config) Validate() error {
	switch c.Output {
	case OutputText, OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("invalid output format %q (want text, json or yaml)", c.Output)
	}
	if !strings.HasPrefix(c.Server, "http://") && !strings.HasPrefix(c.Server, "https://") {
		return fmt.Errorf("invalid server %q: must start with http:// or https://", c.Server)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

// LoadConfig loads configuration in this order, later sources winning:
// defaults, dir/config.yaml, then FEEDTRACK_SERVER, FEEDTRACK_TIMEOUT and
// FEEDTRACK_OUTPUT.
func LoadConfig(dir string) (*Config, error) {
	cfg := DefaultConfig()

	path := filepath.Join(dir, configFile)
	if _, err := os.Stat(path); err == nil {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	loadFromEnv(cfg)
	cfg.Server = strings.TrimRight(cfg.Server, "/")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	// Durations are written as strings ("30s").
	type configFile struct {
		Server  string       `yaml:"server"`
		Timeout string       `yaml:"timeout"`
		Output  OutputFormat `yaml:"output"`
	}

	var fileCfg configFile
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	if fileCfg.Server != "" {
		cfg.Server = fileCfg.Server
	}
	if fileCfg.Timeout != "" {
		d, err := time.ParseDuration(fileCfg.Timeout)
		if err != nil {
			return fmt.Errorf("parsing timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if fileCfg.Output != "" {
		cfg.Output = fileCfg.Output
	}
	return nil
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv("FEEDTRACK_SERVER"); v != "" {
		cfg.Server = v
	}
	if v := os.Getenv("FEEDTRACK_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = d
		}
	}
	if v := os.Getenv("FEEDTRACK_OUTPUT"); v != "" {
		cfg.Output = OutputFormat(v)
	}
}
