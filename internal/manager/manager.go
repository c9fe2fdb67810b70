package manager

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"swapd/internal/registry"
	"swapd/internal/schedule"
)

// Manager serves one hot-swappable Resource out of two slots.
type Manager[R Resource] struct {
	cfg         Config
	newResource func() R
	log         zerolog.Logger
	publisher   EventPublisher
	scanner     registry.Scanner
	pruner      registry.Pruner
	stagger     schedule.Stagger

	slots [2]*slot[R]
	// current holds a SlotID. Readers load it without taking mu.
	current atomic.Int32

	// writeMu serializes the loader side (reload and drain): at most one
	// writer touches slot contents at a time.
	writeMu sync.Mutex

	mu             sync.RWMutex
	currentVersion string
	nextReloadAt   time.Time
	lastErr        string
	loads          uint64

	trigger   chan struct{}
	started   atomic.Bool
	done      chan struct{}
	startedAt time.Time

	now func() time.Time
}

// New constructs a Manager. newResource must return a fresh, empty Resource
// and is called for both slots and on every reset.
func New[R Resource](newResource func() R, cfg Config) (*Manager[R], error) {
	if newResource == nil {
		return nil, fmt.Errorf("new manager: resource factory is nil")
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new manager: %w", err)
	}
	log := cfg.Logger.With().Str("component", "manager").Str("prefix", cfg.Prefix).Logger()
	m := &Manager[R]{
		cfg:         cfg,
		newResource: newResource,
		log:         log,
		publisher:   cfg.Publisher,
		scanner: registry.Scanner{
			FS:              cfg.FS,
			ParentDir:       cfg.ParentDir,
			Prefix:          cfg.Prefix,
			Marker:          cfg.Marker,
			SecondaryMarker: cfg.SecondaryMarker,
		},
		pruner:  registry.Pruner{FS: cfg.FS, Logger: log},
		stagger: cfg.stagger(),
		trigger: make(chan struct{}, 1),
		done:    make(chan struct{}),
		now:     time.Now,
	}
	m.startedAt = m.now()
	m.slots[0] = newSlot(SlotA, newResource(), log, cfg.Publisher)
	m.slots[1] = newSlot(SlotB, newResource(), log, cfg.Publisher)
	return m, nil
}

// CurrentSlot returns the slot serving reads, or SlotNone before the first load.
func (m *Manager[R]) CurrentSlot() SlotID { return SlotID(m.current.Load()) }

// Ready reports whether a version is being served.
func (m *Manager[R]) Ready() bool { return m.CurrentSlot() != SlotNone }

// CurrentVersion returns the served version ID, "" before the first load.
func (m *Manager[R]) CurrentVersion() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentVersion
}

// Loads returns the number of successful loads.
func (m *Manager[R]) Loads() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loads
}

// Config returns the effective (defaulted) configuration.
func (m *Manager[R]) Config() Config { return m.cfg }

func (m *Manager[R]) setLastError(err error) {
	m.mu.Lock()
	if err == nil {
		m.lastErr = ""
	} else {
		m.lastErr = err.Error()
	}
	m.mu.Unlock()
}
