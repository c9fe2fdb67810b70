package manager

import (
	"context"
	"time"
)

const drainRetryFactor = 10

// Drain resets slot id to an empty Resource if it is not current and its
// exclusive lock can be taken within the drain lock timeout. Draining an
// already empty slot is a no-op.
func (m *Manager[R]) Drain(ctx context.Context, id SlotID) error {
	return m.drain(ctx, id, m.cfg.DrainLockTimeout)
}

func (m *Manager[R]) drain(ctx context.Context, id SlotID, timeout time.Duration) error {
	if id == SlotNone {
		return nil
	}
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	if m.CurrentSlot() == id {
		return errSlotCurrent
	}
	s := m.slot(id)
	if err := s.lock.TryLock(timeout); err != nil {
		drainsTotal.WithLabelValues("timeout").Inc()
		return &lockTimeoutError{slot: id, op: "drain", err: err}
	}
	defer s.lock.Unlock()

	m.mu.RLock()
	version := s.version
	m.mu.RUnlock()
	s.content = m.newResource()
	m.mu.Lock()
	s.version, s.loadedAt = "", time.Time{}
	m.mu.Unlock()
	if s.fsm.Can(slotEventDrained) {
		s.transition(ctx, slotEventDrained)
	}
	drainsTotal.WithLabelValues("ok").Inc()
	if version != "" {
		m.log.Info().Str("slot", id.String()).Str("version", version).Msg("drained superseded slot")
		m.publisher.Publish(Event{Name: EventDrainDone, Version: version, Fields: map[string]any{"slot": id.String()}})
	}
	return nil
}

// drainStale waits ReleaseGrace and drains the non-current slot if it still
// holds a superseded version. One retry with drainRetryFactor times the lock
// timeout follows after DrainRetryGrace; if that fails too the slot is left
// for the next successful load to reset.
func (m *Manager[R]) drainStale(ctx context.Context) {
	id := m.CurrentSlot()
	if id == SlotNone {
		return
	}
	stale := id.Other()
	if m.slot(stale).state() != StateDraining {
		return
	}
	if !sleepCtx(ctx, m.cfg.ReleaseGrace) {
		return
	}
	err := m.Drain(ctx, stale)
	if err == nil || !IsLockTimeout(err) {
		return
	}
	m.log.Warn().Err(err).Str("slot", stale.String()).Dur("retry_in", m.cfg.DrainRetryGrace).Msg("drain timed out, retrying once")
	m.publisher.Publish(Event{Name: EventDrainTimeout, Fields: map[string]any{"slot": stale.String(), "attempt": 1}})
	if !sleepCtx(ctx, m.cfg.DrainRetryGrace) {
		return
	}
	if err := m.drain(ctx, stale, drainRetryFactor*m.cfg.DrainLockTimeout); err != nil && IsLockTimeout(err) {
		m.log.Warn().Err(err).Str("slot", stale.String()).Msg("drain gave up; slot will be reset by the next load")
		m.publisher.Publish(Event{Name: EventDrainTimeout, Fields: map[string]any{"slot": stale.String(), "attempt": 2}})
	}
}
