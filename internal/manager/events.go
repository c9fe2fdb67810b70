package manager

// Event represents a manager lifecycle event.
// Minimal and stable: name + version and optional fields via key/values.
type Event struct {
	Name    string
	Version string
	Fields  map[string]any
}

// Event names published by the manager.
const (
	EventReloadStart  = "reload_start"
	EventReloadSkip   = "reload_skip"
	EventLoadOK       = "load_ok"
	EventLoadFail     = "load_fail"
	EventDrainDone    = "drain_done"
	EventDrainTimeout = "drain_timeout"
	EventPruneDone    = "prune_done"
	EventSlotState    = "slot_state"
)

// EventPublisher receives events from the manager. Implementations should be
// lightweight and non-blocking; Publish must not panic.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}
