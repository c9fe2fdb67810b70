package lock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundedWait_SharedHoldersCoexist(t *testing.T) {
	l := New()
	require.NoError(t, l.TryRLock(10*time.Millisecond))
	require.NoError(t, l.TryRLock(10*time.Millisecond))
	r, w := l.State()
	assert.Equal(t, 2, r)
	assert.False(t, w)
	l.RUnlock()
	l.RUnlock()
	r, _ = l.State()
	assert.Equal(t, 0, r)
}

func TestBoundedWait_ExclusiveFailsWhileShared(t *testing.T) {
	l := New()
	require.NoError(t, l.TryRLock(time.Millisecond))
	assert.ErrorIs(t, l.TryLock(50*time.Millisecond), ErrBusy)
	l.RUnlock()
	require.NoError(t, l.TryLock(time.Millisecond))
	l.Unlock()
}

func TestBoundedWait_SharedFailsWhileExclusive(t *testing.T) {
	l := New()
	require.NoError(t, l.TryLock(time.Millisecond))
	assert.ErrorIs(t, l.TryRLock(50*time.Millisecond), ErrBusy)
	assert.ErrorIs(t, l.TryLock(50*time.Millisecond), ErrBusy)
	_, w := l.State()
	assert.True(t, w)
	l.Unlock()
	require.NoError(t, l.TryRLock(time.Millisecond))
	l.RUnlock()
}

func TestBoundedWait_BusyFailsFast(t *testing.T) {
	l := New()
	require.NoError(t, l.TryLock(time.Millisecond))
	defer l.Unlock()
	start := time.Now()
	err := l.TryRLock(2 * time.Second)
	assert.ErrorIs(t, err, ErrBusy)
	assert.Less(t, time.Since(start), time.Second, "conflicting mode must not wait for the timeout")
}

func TestBoundedWait_TimeoutOnBookkeepingMutex(t *testing.T) {
	l := New()
	// Simulate another goroutine parked inside the bookkeeping section.
	l.mu <- struct{}{}
	start := time.Now()
	assert.ErrorIs(t, l.TryRLock(20*time.Millisecond), ErrTimeout)
	assert.ErrorIs(t, l.TryLock(0), ErrTimeout)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	<-l.mu
	require.NoError(t, l.TryLock(0))
	l.Unlock()
}

func TestBoundedWait_ReaderCap(t *testing.T) {
	l := New()
	l.readers = MaxReaders
	assert.ErrorIs(t, l.TryRLock(time.Millisecond), ErrTooManyReaders)
	l.readers = MaxReaders - 1
	assert.NoError(t, l.TryRLock(time.Millisecond))
}

func TestBoundedWait_UnlockUnheldPanics(t *testing.T) {
	l := New()
	assert.Panics(t, func() { l.Unlock() })
	assert.Panics(t, func() { l.RUnlock() })
}

func TestBoundedWait_ConcurrentReaders(t *testing.T) {
	l := New()
	var wg sync.WaitGroup
	const n = 64
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if err := l.TryRLock(time.Second); err != nil {
					t.Errorf("TryRLock: %v", err)
					return
				}
				l.RUnlock()
			}
		}()
	}
	wg.Wait()
	r, w := l.State()
	assert.Equal(t, 0, r)
	assert.False(t, w)
	require.NoError(t, l.TryLock(time.Millisecond))
	l.Unlock()
}
