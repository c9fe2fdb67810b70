package manager

import (
	"sync"
	"time"

	"swapd/internal/lock"
)

// Lease is shared access to the served Resource. The Resource must not be
// used after Release.
type Lease[R Resource] struct {
	Resource R
	Version  string
	Slot     SlotID

	release func()
	once    sync.Once
}

// Release gives the slot back. Calling it more than once is harmless.
func (l *Lease[R]) Release() {
	l.once.Do(l.release)
}

// Acquire returns shared access to the current Resource, waiting at most the
// configured LockTimeout. It never blocks behind a loader or drainer: a busy
// slot yields a lock timeout error the caller should treat as "use a
// fallback".
func (m *Manager[R]) Acquire() (*Lease[R], error) {
	return m.AcquireTimeout(m.cfg.LockTimeout)
}

// AcquireTimeout is Acquire with an explicit bound.
func (m *Manager[R]) AcquireTimeout(d time.Duration) (*Lease[R], error) {
	// A second attempt covers the window in which current flipped and the
	// slot we routed to was drained before we locked it.
	for attempt := 0; attempt < 2; attempt++ {
		id := m.CurrentSlot()
		if id == SlotNone {
			return nil, ErrNotReady
		}
		s := m.slot(id)
		if err := s.lock.TryRLock(d); err != nil {
			readerLockFailures.Inc()
			return nil, &lockTimeoutError{slot: id, op: "read", err: err}
		}
		m.mu.RLock()
		version := s.version
		m.mu.RUnlock()
		if version == "" {
			s.lock.RUnlock()
			continue
		}
		return &Lease[R]{Resource: s.content, Version: version, Slot: id, release: s.lock.RUnlock}, nil
	}
	readerLockFailures.Inc()
	return nil, &lockTimeoutError{slot: m.CurrentSlot(), op: "read", err: lock.ErrBusy}
}

// With runs fn with shared access to the current Resource.
func (m *Manager[R]) With(fn func(R) error) error {
	l, err := m.Acquire()
	if err != nil {
		return err
	}
	defer l.Release()
	return fn(l.Resource)
}
