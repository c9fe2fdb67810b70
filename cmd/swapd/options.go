package main

import (
	"time"

	"github.com/spf13/pflag"

	"swapd/internal/config"
	"swapd/internal/manager"
)

// serveFlags mirrors config.Config on the command line. Defaults come from
// SWAPD_* environment variables.
type serveFlags struct {
	addr            string
	parentDir       string
	prefix          string
	marker          string
	secondaryMarker string
	modelFile       string
	reloadInterval  time.Duration
	retention       int
	fleetIndex      int
	fleetSize       int
	releaseGrace    time.Duration
	lockTimeout     time.Duration
	fallbackScore   float64
	disableFallback bool
	maxBodyBytes    int64
	corsEnabled     bool
	corsOrigins     string
	shutdownTimeout time.Duration
}

func (f *serveFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.addr, "addr", envStr("SWAPD_ADDR", config.DefaultAddr), "HTTP listen address")
	f.registerArtifact(fs)
	fs.StringVar(&f.modelFile, "model-file", envStr("SWAPD_MODEL_FILE", ""), "Model file inside each version (default: probe model.{yaml,yml,json,toml})")
	fs.DurationVar(&f.reloadInterval, "reload-interval", envDuration("SWAPD_RELOAD_INTERVAL", manager.DefaultReloadInterval), "Reload grid period")
	fs.IntVar(&f.retention, "retention", envInt("SWAPD_RETENTION", manager.DefaultRetention), "Valid versions kept on disk; negative keeps all")
	fs.IntVar(&f.fleetIndex, "fleet-index", envInt("SWAPD_FLEET_INDEX", 0), "This process' position in the reload fleet")
	fs.IntVar(&f.fleetSize, "fleet-size", envInt("SWAPD_FLEET_SIZE", 1), "Processes sharing the artifact directory")
	fs.DurationVar(&f.releaseGrace, "release-grace", envDuration("SWAPD_RELEASE_GRACE", manager.DefaultReleaseGrace), "Wait before resetting the superseded slot")
	fs.DurationVar(&f.lockTimeout, "lock-timeout", envDuration("SWAPD_LOCK_TIMEOUT", manager.DefaultLockTimeout), "Reader lock bound before answering with the fallback")
	fs.Float64Var(&f.fallbackScore, "fallback-score", envFloat("SWAPD_FALLBACK_SCORE", 0), "Score returned when the model is busy")
	fs.BoolVar(&f.disableFallback, "disable-fallback", envBool("SWAPD_DISABLE_FALLBACK", false), "Answer 503 instead of the fallback score")
	fs.Int64Var(&f.maxBodyBytes, "max-body-bytes", envInt64("SWAPD_MAX_BODY_BYTES", config.DefaultMaxBodyBytes), "Maximum /predict body size")
	fs.BoolVar(&f.corsEnabled, "cors", envBool("SWAPD_CORS_ENABLED", false), "Enable CORS")
	fs.StringVar(&f.corsOrigins, "cors-origins", envStr("SWAPD_CORS_ORIGINS", ""), "Comma separated allowed origins (default *)")
	fs.DurationVar(&f.shutdownTimeout, "shutdown-timeout", envDuration("SWAPD_SHUTDOWN_TIMEOUT", config.DefaultShutdownTimeout), "Graceful shutdown bound")
}

// registerArtifact adds the flags describing the version directory layout.
func (f *serveFlags) registerArtifact(fs *pflag.FlagSet) {
	fs.StringVar(&f.parentDir, "parent-dir", envStr("SWAPD_PARENT_DIR", ""), "Directory holding one subdirectory per version")
	fs.StringVar(&f.prefix, "prefix", envStr("SWAPD_PREFIX", manager.DefaultPrefix), "Version directory name prefix")
	fs.StringVar(&f.marker, "marker", envStr("SWAPD_MARKER", manager.DefaultMarker), "Marker file that makes a version valid")
	fs.StringVar(&f.secondaryMarker, "secondary-marker", envStr("SWAPD_SECONDARY_MARKER", ""), "Optional second required marker file")
}

func pick[T comparable](changed bool, flagVal, fileVal T) T {
	var zero T
	if changed || fileVal == zero {
		return flagVal
	}
	return fileVal
}

// merge overlays flags on a file config: an explicitly set flag always wins,
// otherwise the file value is kept unless it is unset.
func (f *serveFlags) merge(cfg config.Config, fs *pflag.FlagSet) config.Config {
	ch := func(name string) bool {
		fl := fs.Lookup(name)
		return fl != nil && fl.Changed
	}
	cfg.Addr = pick(ch("addr"), f.addr, cfg.Addr)
	cfg.ParentDir = pick(ch("parent-dir"), f.parentDir, cfg.ParentDir)
	cfg.Prefix = pick(ch("prefix"), f.prefix, cfg.Prefix)
	cfg.Marker = pick(ch("marker"), f.marker, cfg.Marker)
	cfg.SecondaryMarker = pick(ch("secondary-marker"), f.secondaryMarker, cfg.SecondaryMarker)
	cfg.ModelFile = pick(ch("model-file"), f.modelFile, cfg.ModelFile)
	cfg.ReloadIntervalSeconds = pick(ch("reload-interval"), int(f.reloadInterval/time.Second), cfg.ReloadIntervalSeconds)
	cfg.Retention = pick(ch("retention"), f.retention, cfg.Retention)
	cfg.FleetIndex = pick(ch("fleet-index"), f.fleetIndex, cfg.FleetIndex)
	cfg.FleetSize = pick(ch("fleet-size"), f.fleetSize, cfg.FleetSize)
	cfg.ReleaseGraceMS = pick(ch("release-grace"), int(f.releaseGrace/time.Millisecond), cfg.ReleaseGraceMS)
	cfg.LockTimeoutMS = pick(ch("lock-timeout"), int(f.lockTimeout/time.Millisecond), cfg.LockTimeoutMS)
	cfg.FallbackScore = pick(ch("fallback-score"), f.fallbackScore, cfg.FallbackScore)
	cfg.DisableFallback = pick(ch("disable-fallback"), f.disableFallback, cfg.DisableFallback)
	cfg.MaxBodyBytes = pick(ch("max-body-bytes"), f.maxBodyBytes, cfg.MaxBodyBytes)
	cfg.CORSEnabled = pick(ch("cors"), f.corsEnabled, cfg.CORSEnabled)
	if origins := splitCSV(f.corsOrigins); ch("cors-origins") || len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = origins
	}
	cfg.ShutdownTimeoutSeconds = pick(ch("shutdown-timeout"), int(f.shutdownTimeout/time.Second), cfg.ShutdownTimeoutSeconds)
	return cfg
}

// managerConfig maps the service config onto the manager's.
func managerConfig(cfg config.Config) manager.Config {
	return manager.Config{
		ParentDir:        cfg.ParentDir,
		Prefix:           cfg.Prefix,
		Marker:           cfg.Marker,
		SecondaryMarker:  cfg.SecondaryMarker,
		ReloadInterval:   cfg.ReloadInterval(),
		Retention:        cfg.Retention,
		FleetIndex:       cfg.FleetIndex,
		FleetSize:        cfg.FleetSize,
		ReleaseGrace:     config.Millis(cfg.ReleaseGraceMS),
		DrainRetryGrace:  config.Millis(cfg.DrainRetryGraceMS),
		LockTimeout:      config.Millis(cfg.LockTimeoutMS),
		LoadLockTimeout:  config.Millis(cfg.LoadLockTimeoutMS),
		DrainLockTimeout: config.Millis(cfg.DrainLockTimeoutMS),
	}
}
