package manager

import (
	"context"
	"fmt"
	"time"

	"swapd/pkg/types"
)

// Reload runs one reload cycle: scan, load the newest valid version into the
// non-current slot, publish it, prune superseded versions. It never resets
// the current slot; draining the superseded one is left to Drain.
//
// A returned error is classified by IsNoValidVersions, IsLockTimeout and
// IsLoadFailure. Whatever the error, the previously served version keeps
// being served.
func (m *Manager[R]) Reload(ctx context.Context) (ReloadResult, error) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	start := m.now()
	res, err := m.reload(ctx)
	res.Duration = m.now().Sub(start)
	reloadsTotal.WithLabelValues(string(res.Outcome)).Inc()
	switch res.Outcome {
	case OutcomeLoaded, OutcomeUpToDate:
		m.setLastError(nil)
	default:
		if err != nil {
			m.setLastError(err)
		}
	}
	return res, err
}

func (m *Manager[R]) reload(ctx context.Context) (ReloadResult, error) {
	prev := m.CurrentSlot()
	res := ReloadResult{Previous: prev}
	m.publisher.Publish(Event{Name: EventReloadStart, Version: m.CurrentVersion()})

	listing, err := m.scanner.Scan()
	if err != nil {
		res.Outcome = OutcomeScanFailed
		return res, &noValidVersionsError{dir: m.cfg.ParentDir, cause: err}
	}
	res.Listing = listing
	newest, ok := listing.Newest()
	if !ok {
		res.Outcome = OutcomeNoVersions
		return res, &noValidVersionsError{dir: m.cfg.ParentDir}
	}
	res.Candidate = newest

	cur := m.CurrentVersion()
	if cur != "" && newest.ID <= cur {
		res.Outcome = OutcomeUpToDate
		if newest.ID < cur {
			res.Outcome = OutcomeRegression
			m.log.Warn().Str("newest", newest.ID).Str("current", cur).Msg("newest version on disk is older than the served one")
		} else {
			m.log.Debug().Str("version", cur).Str("current_slot", prev.String()).Msg("no new version")
		}
		m.publisher.Publish(Event{Name: EventReloadSkip, Version: newest.ID, Fields: map[string]any{"outcome": string(res.Outcome)}})
		return res, nil
	}

	target := prev.Other()
	res.Target = target
	s := m.slot(target)
	if err := s.lock.TryLock(m.cfg.LoadLockTimeout); err != nil {
		res.Outcome = OutcomeLockTimeout
		return res, &lockTimeoutError{slot: target, op: "load", err: err}
	}

	m.log.Info().Str("version", newest.ID).Str("target", target.String()).Str("current_slot", prev.String()).Msg("loading version")
	m.mu.Lock()
	s.version, s.loadedAt = "", time.Time{}
	m.mu.Unlock()
	s.transition(ctx, slotEventLoad)
	loadStart := time.Now()
	err = m.loadInto(s, newest)
	loadDuration.Observe(time.Since(loadStart).Seconds())
	if err != nil {
		s.transition(ctx, slotEventFail)
		s.lock.Unlock()
		res.Outcome = OutcomeLoadFailed
		m.log.Error().Err(err).Str("version", newest.ID).Str("target", target.String()).Msg("load failed, keeping current version")
		m.publisher.Publish(Event{Name: EventLoadFail, Version: newest.ID, Fields: map[string]any{"slot": target.String(), "error": err.Error()}})
		return res, &loadFailureError{version: newest.ID, err: err}
	}
	s.transition(ctx, slotEventLoaded)

	// The slot's version is recorded while it is still held so a reader can
	// never pair old metadata with new content. The lock is released before
	// publishing so the first readers routed here never find it exclusive.
	m.mu.Lock()
	s.version, s.loadedAt = newest.ID, m.now()
	m.mu.Unlock()
	s.lock.Unlock()
	m.mu.Lock()
	m.currentVersion = newest.ID
	m.loads++
	m.current.Store(int32(target))
	m.mu.Unlock()
	currentSlotGauge.Set(float64(target))

	if prev != SlotNone {
		m.slot(prev).transition(ctx, slotEventRetire)
	}
	res.Outcome = OutcomeLoaded
	m.log.Info().Str("version", newest.ID).Str("slot", target.String()).Msg("version published")
	m.publisher.Publish(Event{Name: EventLoadOK, Version: newest.ID, Fields: map[string]any{"slot": target.String(), "previous": prev.String()}})

	res.Pruned = m.pruner.Prune(listing.Valid, listing.Invalid, m.cfg.Retention)
	for _, v := range res.Pruned.Removed {
		kind := "valid"
		if !v.Valid {
			kind = "invalid"
		}
		prunedTotal.WithLabelValues(kind).Inc()
	}
	if n := len(res.Pruned.Failed); n > 0 {
		prunedTotal.WithLabelValues("failed").Add(float64(n))
	}
	m.publisher.Publish(Event{Name: EventPruneDone, Version: newest.ID, Fields: map[string]any{"removed": len(res.Pruned.Removed), "failed": len(res.Pruned.Failed)}})
	return res, nil
}

// loadInto resets s to an empty Resource and loads v into it. Any error or
// panic leaves s empty again. The caller holds s.lock exclusively.
func (m *Manager[R]) loadInto(s *slot[R], v types.Version) (err error) {
	s.content = m.newResource()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if err != nil {
			s.content = m.newResource()
		}
	}()
	return s.content.Load(v.Path)
}
