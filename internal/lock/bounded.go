// Package lock provides a reader/writer lock whose acquisition attempts are
// always bounded in time.
//
// BoundedWait never parks a caller behind a running reader or writer: the
// only thing an attempt waits for is the short bookkeeping critical section.
// If the lock is held in a conflicting mode the attempt fails at once with
// ErrBusy; if the bookkeeping section itself cannot be entered before the
// timeout the attempt fails with ErrTimeout.
package lock

import (
	"errors"
	"fmt"
	"time"
)

// MaxReaders caps concurrent shared holders. Reaching it indicates leaked
// RUnlock calls rather than real load.
const MaxReaders = 100000

var (
	// ErrTimeout is returned when the bookkeeping mutex was not obtained in time.
	ErrTimeout = errors.New("lock: acquisition timed out")
	// ErrBusy is returned when the lock is held in a conflicting mode.
	ErrBusy = errors.New("lock: held in a conflicting mode")
	// ErrTooManyReaders is returned when MaxReaders shared holders already exist.
	ErrTooManyReaders = fmt.Errorf("lock: more than %d readers", MaxReaders)
)

// BoundedWait is a reader/writer lock with bounded-time acquisition.
// The zero value is not usable; call New.
type BoundedWait struct {
	// mu is the low-level mutex: a one-slot semaphore so that taking it can
	// be abandoned after a timeout.
	mu      chan struct{}
	readers int
	writing bool
}

// New returns an unlocked BoundedWait.
func New() *BoundedWait {
	return &BoundedWait{mu: make(chan struct{}, 1)}
}

// acquire takes the low-level mutex, giving up after timeout.
// A non-positive timeout makes a single non-blocking attempt.
func (l *BoundedWait) acquire(timeout time.Duration) bool {
	select {
	case l.mu <- struct{}{}:
		return true
	default:
	}
	if timeout <= 0 {
		return false
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case l.mu <- struct{}{}:
		return true
	case <-timer.C:
		return false
	}
}

func (l *BoundedWait) release() { <-l.mu }

// TryLock attempts to take the lock exclusively.
func (l *BoundedWait) TryLock(timeout time.Duration) error {
	if !l.acquire(timeout) {
		return ErrTimeout
	}
	defer l.release()
	if l.writing || l.readers > 0 {
		return ErrBusy
	}
	l.writing = true
	return nil
}

// Unlock releases an exclusive hold.
func (l *BoundedWait) Unlock() {
	l.mu <- struct{}{}
	defer l.release()
	if !l.writing {
		panic("lock: Unlock of unlocked BoundedWait")
	}
	l.writing = false
}

// TryRLock attempts to take the lock in shared mode.
func (l *BoundedWait) TryRLock(timeout time.Duration) error {
	if !l.acquire(timeout) {
		return ErrTimeout
	}
	defer l.release()
	if l.writing {
		return ErrBusy
	}
	if l.readers >= MaxReaders {
		return ErrTooManyReaders
	}
	l.readers++
	return nil
}

// RUnlock releases one shared hold.
func (l *BoundedWait) RUnlock() {
	l.mu <- struct{}{}
	defer l.release()
	if l.readers <= 0 {
		panic("lock: RUnlock of unlocked BoundedWait")
	}
	l.readers--
}

// State reports the current number of shared holders and whether the lock
// is held exclusively. The values may be stale by the time they are used.
func (l *BoundedWait) State() (readers int, writing bool) {
	l.mu <- struct{}{}
	defer l.release()
	return l.readers, l.writing
}

func (l *BoundedWait) String() string {
	r, w := l.State()
	return fmt.Sprintf("BoundedWait{readers=%d writing=%t}", r, w)
}
