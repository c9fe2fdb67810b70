package manager

import (
	"context"
	"time"
)

func (m *Manager[R]) slot(id SlotID) *slot[R] {
	if id == SlotB {
		return m.slots[1]
	}
	return m.slots[0]
}

// sleepCtx waits d or until ctx is done. It reports whether d elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func secondsUntil(now, t time.Time) int64 {
	if t.IsZero() || !t.After(now) {
		return 0
	}
	return int64(t.Sub(now) / time.Second)
}
