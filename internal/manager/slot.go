package manager

import (
	"context"
	"time"

	"github.com/looplab/fsm"
	"github.com/rs/zerolog"

	"swapd/internal/lock"
)

// Slot lifecycle events.
const (
	slotEventLoad    = "load"
	slotEventLoaded  = "loaded"
	slotEventFail    = "fail"
	slotEventRetire  = "retire"
	slotEventDrained = "drained"
)

// slot holds one instance of a Resource. content is written only while the
// writer side of lock is held; version and loadedAt are guarded by the
// owning Manager's mu.
type slot[R Resource] struct {
	id      SlotID
	lock    *lock.BoundedWait
	content R
	fsm     *fsm.FSM
	log     zerolog.Logger

	version  string
	loadedAt time.Time
}

func newSlot[R Resource](id SlotID, empty R, log zerolog.Logger, pub EventPublisher) *slot[R] {
	s := &slot[R]{
		id:      id,
		lock:    lock.New(),
		content: empty,
		log:     log.With().Str("slot", id.String()).Logger(),
	}
	s.fsm = fsm.NewFSM(
		string(StateEmpty),
		fsm.Events{
			{Name: slotEventLoad, Src: []string{string(StateEmpty), string(StateDraining)}, Dst: string(StateLoading)},
			{Name: slotEventLoaded, Src: []string{string(StateLoading)}, Dst: string(StateServed)},
			{Name: slotEventFail, Src: []string{string(StateLoading)}, Dst: string(StateEmpty)},
			{Name: slotEventRetire, Src: []string{string(StateServed)}, Dst: string(StateDraining)},
			{Name: slotEventDrained, Src: []string{string(StateDraining)}, Dst: string(StateEmpty)},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				s.log.Debug().Str("from", e.Src).Str("to", e.Dst).Msg("slot state")
				pub.Publish(Event{Name: EventSlotState, Fields: map[string]any{"slot": id.String(), "from": e.Src, "to": e.Dst}})
			},
		},
	)
	return s
}

func (s *slot[R]) state() SlotState { return SlotState(s.fsm.Current()) }

// transition fires a lifecycle event. A rejected transition means the
// manager broke its own invariants; it is logged rather than propagated.
func (s *slot[R]) transition(ctx context.Context, event string) {
	if err := s.fsm.Event(ctx, event); err != nil {
		s.log.Error().Err(err).Str("event", event).Str("state", s.fsm.Current()).Msg("invalid slot transition")
	}
}
