package manager

import (
	"time"

	"swapd/internal/registry"
	"swapd/pkg/types"
)

// Resource is a reloadable artifact. The zero state produced by the
// Manager's factory must be cheap to build and hold no loaded data; Load
// performs all disk I/O and parsing for one version directory.
type Resource interface {
	Load(dir string) error
}

// SlotID identifies one of the two slots.
type SlotID int32

const (
	SlotNone SlotID = iota
	SlotA
	SlotB
)

func (s SlotID) String() string {
	switch s {
	case SlotA:
		return "A"
	case SlotB:
		return "B"
	default:
		return "none"
	}
}

// Other returns the opposite slot. SlotNone maps to SlotA, the slot used for
// the first load.
func (s SlotID) Other() SlotID {
	if s == SlotA {
		return SlotB
	}
	return SlotA
}

// SlotState is a slot's lifecycle state.
type SlotState string

const (
	StateEmpty    SlotState = "empty"
	StateLoading  SlotState = "loading"
	StateServed   SlotState = "served"
	StateDraining SlotState = "draining"
)

// Outcome classifies one reload cycle.
type Outcome string

const (
	OutcomeLoaded      Outcome = "loaded"
	OutcomeUpToDate    Outcome = "up_to_date"
	OutcomeRegression  Outcome = "regression"
	OutcomeNoVersions  Outcome = "no_versions"
	OutcomeScanFailed  Outcome = "scan_failed"
	OutcomeLockTimeout Outcome = "lock_timeout"
	OutcomeLoadFailed  Outcome = "load_failed"
)

// ReloadResult describes one reload cycle.
type ReloadResult struct {
	Outcome Outcome
	// Candidate is the newest valid version found, if any.
	Candidate types.Version
	// Target is the slot the candidate was loaded into.
	Target SlotID
	// Previous is the slot that was current when the cycle started.
	Previous SlotID
	Listing  registry.Listing
	Pruned   registry.PruneResult
	Duration time.Duration
}

// SlotSnapshot is a point-in-time view of one slot.
type SlotSnapshot struct {
	ID       SlotID
	State    SlotState
	Version  string
	LoadedAt time.Time
	Readers  int
	Writing  bool
}

// Empty reports whether the slot held no loaded resource.
func (s SlotSnapshot) Empty() bool { return s.LoadedAt.IsZero() }

// Snapshot is an immutable point-in-time view of the manager.
type Snapshot struct {
	Current        SlotID
	CurrentVersion string
	Slots          [2]SlotSnapshot
	NextReloadAt   time.Time
	FleetIndex     int
	FleetSize      int
	Loads          uint64
	LastError      string
	TakenAt        time.Time
}

// Slot returns the snapshot of slot id.
func (s Snapshot) Slot(id SlotID) SlotSnapshot {
	if id == SlotB {
		return s.Slots[1]
	}
	return s.Slots[0]
}
