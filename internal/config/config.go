package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified". Server fields are defaulted by WithDefaults;
// reload fields left at zero fall through to the manager's own defaults.
type Config struct {
	Addr                   string   `json:"addr" yaml:"addr" toml:"addr"`
	LogLevel               string   `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat              string   `json:"log_format" yaml:"log_format" toml:"log_format"`
	CORSEnabled            bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins            []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
	MaxBodyBytes           int64    `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	ShutdownTimeoutSeconds int      `json:"shutdown_timeout_seconds" yaml:"shutdown_timeout_seconds" toml:"shutdown_timeout_seconds"`

	ParentDir       string `json:"parent_dir" yaml:"parent_dir" toml:"parent_dir"`
	Prefix          string `json:"prefix" yaml:"prefix" toml:"prefix"`
	Marker          string `json:"marker" yaml:"marker" toml:"marker"`
	SecondaryMarker string `json:"secondary_marker" yaml:"secondary_marker" toml:"secondary_marker"`
	ModelFile       string `json:"model_file" yaml:"model_file" toml:"model_file"`

	ReloadIntervalSeconds int `json:"reload_interval_seconds" yaml:"reload_interval_seconds" toml:"reload_interval_seconds"`
	Retention             int `json:"retention" yaml:"retention" toml:"retention"`
	FleetIndex            int `json:"fleet_index" yaml:"fleet_index" toml:"fleet_index"`
	FleetSize             int `json:"fleet_size" yaml:"fleet_size" toml:"fleet_size"`

	ReleaseGraceMS     int `json:"release_grace_ms" yaml:"release_grace_ms" toml:"release_grace_ms"`
	DrainRetryGraceMS  int `json:"drain_retry_grace_ms" yaml:"drain_retry_grace_ms" toml:"drain_retry_grace_ms"`
	LockTimeoutMS      int `json:"lock_timeout_ms" yaml:"lock_timeout_ms" toml:"lock_timeout_ms"`
	LoadLockTimeoutMS  int `json:"load_lock_timeout_ms" yaml:"load_lock_timeout_ms" toml:"load_lock_timeout_ms"`
	DrainLockTimeoutMS int `json:"drain_lock_timeout_ms" yaml:"drain_lock_timeout_ms" toml:"drain_lock_timeout_ms"`

	FallbackScore   float64 `json:"fallback_score" yaml:"fallback_score" toml:"fallback_score"`
	DisableFallback bool    `json:"disable_fallback" yaml:"disable_fallback" toml:"disable_fallback"`
}

// Server defaults.
const (
	DefaultAddr            = ":8080"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "json"
	DefaultMaxBodyBytes    = 1 << 20
	DefaultShutdownTimeout = 10 * time.Second
)

// WithDefaults returns a copy of cfg with unset server fields filled in.
func (cfg Config) WithDefaults() Config {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.ShutdownTimeoutSeconds <= 0 {
		cfg.ShutdownTimeoutSeconds = int(DefaultShutdownTimeout / time.Second)
	}
	return cfg
}

// Validate rejects inconsistent values. Zero values are accepted.
func (cfg Config) Validate() error {
	var errs []error
	if cfg.LogLevel != "" {
		if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
			errs = append(errs, fmt.Errorf("log_level: %w", err))
		}
	}
	switch cfg.LogFormat {
	case "", "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log_format must be json or console, got %q", cfg.LogFormat))
	}
	if cfg.FleetSize < 0 {
		errs = append(errs, fmt.Errorf("fleet_size must not be negative, got %d", cfg.FleetSize))
	}
	size := cfg.FleetSize
	if size == 0 {
		size = 1
	}
	if cfg.FleetIndex < 0 || cfg.FleetIndex >= size {
		errs = append(errs, fmt.Errorf("fleet_index %d out of range [0, %d)", cfg.FleetIndex, size))
	}
	for name, v := range map[string]int{
		"reload_interval_seconds": cfg.ReloadIntervalSeconds,
		"release_grace_ms":        cfg.ReleaseGraceMS,
		"drain_retry_grace_ms":    cfg.DrainRetryGraceMS,
		"lock_timeout_ms":         cfg.LockTimeoutMS,
		"load_lock_timeout_ms":    cfg.LoadLockTimeoutMS,
		"drain_lock_timeout_ms":   cfg.DrainLockTimeoutMS,
	} {
		if v < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %d", name, v))
		}
	}
	if cfg.FallbackScore < 0 || cfg.FallbackScore > 1 {
		errs = append(errs, fmt.Errorf("fallback_score must be within [0, 1], got %g", cfg.FallbackScore))
	}
	return errors.Join(errs...)
}

// ReloadInterval returns the configured interval, zero if unset.
func (cfg Config) ReloadInterval() time.Duration {
	return time.Duration(cfg.ReloadIntervalSeconds) * time.Second
}

// ShutdownTimeout returns the graceful shutdown bound, zero if unset.
func (cfg Config) ShutdownTimeout() time.Duration {
	return time.Duration(cfg.ShutdownTimeoutSeconds) * time.Second
}

// Millis converts a millisecond config field to a duration.
func Millis(ms int) time.Duration { return time.Duration(ms) * time.Millisecond }
