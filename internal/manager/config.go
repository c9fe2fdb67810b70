package manager

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"swapd/internal/registry"
	"swapd/internal/schedule"
)

// Defaults applied when corresponding Config fields are unset.
const (
	DefaultPrefix           = "net_model"
	DefaultMarker           = "ModelSentinel.txt"
	DefaultReloadInterval   = 30 * time.Minute
	DefaultRetention        = 2
	DefaultReleaseGrace     = 3 * time.Second
	DefaultDrainRetryGrace  = 30 * time.Second
	DefaultLockTimeout      = 100 * time.Millisecond
	DefaultLoadLockTimeout  = 10 * time.Second
	DefaultDrainLockTimeout = 10 * time.Second
)

// Config encapsulates all tunables for Manager construction.
type Config struct {
	// ParentDir holds one subdirectory per version. Required.
	ParentDir string
	// Prefix filters version directory names.
	Prefix string
	// Marker must exist inside a version directory for it to be valid.
	Marker string
	// SecondaryMarker, when non-empty, must exist as well.
	SecondaryMarker string

	ReloadInterval time.Duration
	// Retention is the number of newest valid versions kept on disk.
	// Negative disables pruning of valid versions.
	Retention int

	FleetIndex int
	FleetSize  int

	// ReleaseGrace is the wait between publishing a new slot and resetting
	// the previous one.
	ReleaseGrace time.Duration
	// DrainRetryGrace is the wait before the second and last drain attempt.
	DrainRetryGrace time.Duration

	// LockTimeout bounds reader shared-lock attempts.
	LockTimeout time.Duration
	// LoadLockTimeout bounds the loader's exclusive attempt on the target slot.
	LoadLockTimeout time.Duration
	// DrainLockTimeout bounds each drain attempt.
	DrainLockTimeout time.Duration

	FS        registry.FS
	Logger    *zerolog.Logger
	Publisher EventPublisher
}

// WithDefaults returns a copy of cfg with zero values replaced by defaults.
func (cfg Config) WithDefaults() Config {
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}
	if cfg.Marker == "" {
		cfg.Marker = DefaultMarker
	}
	if cfg.ReloadInterval <= 0 {
		cfg.ReloadInterval = DefaultReloadInterval
	}
	if cfg.Retention == 0 {
		cfg.Retention = DefaultRetention
	}
	if cfg.FleetSize <= 0 {
		cfg.FleetSize = 1
	}
	if cfg.ReleaseGrace <= 0 {
		cfg.ReleaseGrace = DefaultReleaseGrace
	}
	if cfg.DrainRetryGrace <= 0 {
		cfg.DrainRetryGrace = DefaultDrainRetryGrace
	}
	if cfg.LockTimeout <= 0 {
		cfg.LockTimeout = DefaultLockTimeout
	}
	if cfg.LoadLockTimeout <= 0 {
		cfg.LoadLockTimeout = DefaultLoadLockTimeout
	}
	if cfg.DrainLockTimeout <= 0 {
		cfg.DrainLockTimeout = DefaultDrainLockTimeout
	}
	if cfg.FS == nil {
		cfg.FS = registry.OSFS{}
	}
	if cfg.Logger == nil {
		l := zerolog.Nop()
		cfg.Logger = &l
	}
	if cfg.Publisher == nil {
		cfg.Publisher = noopPublisher{}
	}
	return cfg
}

func (cfg Config) stagger() schedule.Stagger {
	return schedule.Stagger{
		Interval:  cfg.ReloadInterval,
		Index:     cfg.FleetIndex,
		Size:      cfg.FleetSize,
		Tolerance: schedule.DefaultTolerance,
	}
}

// Validate reports configuration errors. Call it on a defaulted Config.
func (cfg Config) Validate() error {
	if cfg.ParentDir == "" {
		return errors.New("parent dir is required")
	}
	return cfg.stagger().Validate()
}
