// Package config loads Core's process configuration: a YAML file with
// environment-variable overrides, following the same
// read-file-then-unmarshal-then-validate shape used across the
// example corpus's config packages.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned by Load when the given path does not exist.
var ErrNotFound = errors.New("komodo: config file not found")

// CoreConfig is every tunable Core's constructors take as input: data
// directory, bind address, and the poll/retry/deadline knobs the
// ambient components (Status Cache, Periphery Transport, Execution
// Dispatcher) are parameterized by.
type CoreConfig struct {
	DataDir    string `yaml:"data_dir"`
	BindAddr   string `yaml:"bind_addr"`
	LogLevel   string `yaml:"log_level"`
	LogJSON    bool   `yaml:"log_json"`

	StatusPollIntervalSeconds int `yaml:"status_poll_interval_seconds"`
	StatusCacheTTLSeconds     int `yaml:"status_cache_ttl_seconds"`

	PeripherySecret         string `yaml:"periphery_secret"`
	PeripheryTimeoutSeconds int    `yaml:"periphery_timeout_seconds"`
	PeripheryMaxRetries     int    `yaml:"periphery_max_retries"`

	DispatchConcurrency int `yaml:"dispatch_concurrency"`

	DefaultActionTimeoutSeconds int `yaml:"default_action_timeout_seconds"`
}

// Default returns the configuration used when no file is present and
// no override is set.
func Default() CoreConfig {
	return CoreConfig{
		DataDir:                     "./data",
		BindAddr:                    ":8120",
		LogLevel:                    "info",
		LogJSON:                     false,
		StatusPollIntervalSeconds:   15,
		StatusCacheTTLSeconds:       10,
		PeripheryTimeoutSeconds:     60,
		PeripheryMaxRetries:         2,
		DispatchConcurrency:         10,
		DefaultActionTimeoutSeconds: 60,
	}
}

// Load reads path, falling back to Default if path is empty, then
// applies KOMODO_-prefixed environment variable overrides.
func Load(path string) (CoreConfig, error) {
	cfg := Default()

	if path != "" {
		exists, err := fileExists(path)
		if err != nil {
			return CoreConfig{}, fmt.Errorf("checking config existence: %w", err)
		}
		if !exists {
			return CoreConfig{}, ErrNotFound
		}

		// nolint:gosec // reading a caller-specified config path is expected.
		data, err := os.ReadFile(path)
		if err != nil {
			return CoreConfig{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return CoreConfig{}, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := validate(cfg); err != nil {
		return CoreConfig{}, err
	}
	return cfg, nil
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func validate(cfg CoreConfig) error {
	if cfg.DataDir == "" {
		return errors.New("config: data_dir must be non-empty")
	}
	if cfg.BindAddr == "" {
		return errors.New("config: bind_addr must be non-empty")
	}
	if cfg.StatusPollIntervalSeconds <= 0 {
		return errors.New("config: status_poll_interval_seconds must be positive")
	}
	if cfg.DispatchConcurrency <= 0 {
		return errors.New("config: dispatch_concurrency must be positive")
	}
	return nil
}

// StatusPollInterval converts the configured seconds field into a
// time.Duration for callers constructing pkg/statuscache.
func (c CoreConfig) StatusPollInterval() time.Duration {
	return time.Duration(c.StatusPollIntervalSeconds) * time.Second
}

// StatusCacheTTL converts the configured seconds field into a
// time.Duration for pkg/statuscache.
func (c CoreConfig) StatusCacheTTL() time.Duration {
	return time.Duration(c.StatusCacheTTLSeconds) * time.Second
}

// PeripheryTimeout converts the configured seconds field into a
// time.Duration for pkg/periphery.Client calls.
func (c CoreConfig) PeripheryTimeout() time.Duration {
	return time.Duration(c.PeripheryTimeoutSeconds) * time.Second
}

type envOverride struct {
	key    string
	apply  func(cfg *CoreConfig, value string) error
}

var envOverrides = []envOverride{
	{"KOMODO_DATA_DIR", func(c *CoreConfig, v string) error { c.DataDir = v; return nil }},
	{"KOMODO_BIND_ADDR", func(c *CoreConfig, v string) error { c.BindAddr = v; return nil }},
	{"KOMODO_LOG_LEVEL", func(c *CoreConfig, v string) error { c.LogLevel = v; return nil }},
	{"KOMODO_LOG_JSON", func(c *CoreConfig, v string) error { return setBool(&c.LogJSON, v) }},
	{"KOMODO_STATUS_POLL_INTERVAL_SECONDS", func(c *CoreConfig, v string) error { return setInt(&c.StatusPollIntervalSeconds, v) }},
	{"KOMODO_STATUS_CACHE_TTL_SECONDS", func(c *CoreConfig, v string) error { return setInt(&c.StatusCacheTTLSeconds, v) }},
	{"KOMODO_PERIPHERY_SECRET", func(c *CoreConfig, v string) error { c.PeripherySecret = v; return nil }},
	{"KOMODO_PERIPHERY_TIMEOUT_SECONDS", func(c *CoreConfig, v string) error { return setInt(&c.PeripheryTimeoutSeconds, v) }},
	{"KOMODO_PERIPHERY_MAX_RETRIES", func(c *CoreConfig, v string) error { return setInt(&c.PeripheryMaxRetries, v) }},
	{"KOMODO_DISPATCH_CONCURRENCY", func(c *CoreConfig, v string) error { return setInt(&c.DispatchConcurrency, v) }},
	{"KOMODO_DEFAULT_ACTION_TIMEOUT_SECONDS", func(c *CoreConfig, v string) error { return setInt(&c.DefaultActionTimeoutSeconds, v) }},
}

func applyEnvOverrides(cfg *CoreConfig) {
	for _, o := range envOverrides {
		v, ok := os.LookupEnv(o.key)
		if !ok || v == "" {
			continue
		}
		if err := o.apply(cfg, v); err != nil {
			continue
		}
	}
}

func setInt(dst *int, raw string) error {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

func setBool(dst *bool, raw string) error {
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return err
	}
	*dst = b
	return nil
}
