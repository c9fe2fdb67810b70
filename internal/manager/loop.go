package manager

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Start performs the initial load synchronously and then runs the reload
// loop in the background until ctx is done. Failing to serve an initial
// version is fatal: the error is returned and no loop is started.
func (m *Manager[R]) Start(ctx context.Context) error {
	if !m.started.CompareAndSwap(false, true) {
		return errors.New("manager already started")
	}
	res, err := m.Reload(ctx)
	if err != nil {
		close(m.done)
		return fmt.Errorf("initial load: %w", err)
	}
	m.log.Info().
		Str("version", res.Candidate.ID).
		Str("slot", res.Target.String()).
		Dur("took", res.Duration).
		Int("fleet_index", m.cfg.FleetIndex).
		Int("fleet_size", m.cfg.FleetSize).
		Msg("initial version loaded")
	go m.run(ctx)
	return nil
}

// Done is closed when the reload loop has exited, or when Start failed.
func (m *Manager[R]) Done() <-chan struct{} { return m.done }

// NextReloadAt returns the next scheduled reload attempt, zero before Start.
func (m *Manager[R]) NextReloadAt() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.nextReloadAt
}

func (m *Manager[R]) run(ctx context.Context) {
	defer close(m.done)
	defer m.log.Info().Msg("reload loop stopped")
	for {
		next := m.stagger.Next(m.now())
		m.mu.Lock()
		m.nextReloadAt = next
		m.mu.Unlock()
		m.log.Debug().Time("next_reload", next).Msg("scheduled")
		if !m.waitUntil(ctx, next) {
			return
		}
		m.cycle(ctx)
	}
}

// waitUntil blocks until t, a Trigger call, or ctx cancellation. It reports
// whether a cycle should run.
func (m *Manager[R]) waitUntil(ctx context.Context, t time.Time) bool {
	d := t.Sub(m.now())
	if d < 0 {
		d = 0
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	case <-m.trigger:
		m.log.Info().Msg("reload triggered")
		return true
	}
}

// cycle runs one scheduled reload and then tries to free the superseded
// slot. Errors are logged; the served version is never affected.
func (m *Manager[R]) cycle(ctx context.Context) {
	res, err := m.Reload(ctx)
	switch {
	case err == nil:
		if res.Outcome == OutcomeLoaded {
			m.log.Info().Str("version", res.Candidate.ID).Dur("took", res.Duration).
				Int("pruned", len(res.Pruned.Removed)).Msg("reload cycle loaded new version")
		}
	case IsNoValidVersions(err):
		m.log.Warn().Err(err).Msg("reload cycle found no valid versions")
	case IsLockTimeout(err):
		m.log.Warn().Err(err).Msg("reload cycle skipped, target slot busy")
	default:
		m.log.Error().Err(err).Msg("reload cycle failed")
	}
	if ctx.Err() != nil {
		return
	}
	m.drainStale(ctx)
}
