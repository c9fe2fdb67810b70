// Package schedule computes staggered reload instants for a fleet of
// processes that share one artifact directory.
package schedule

import (
	"fmt"
	"time"
)

// DefaultTolerance is how far past the next grid boundary a staggered wake
// time may fall before it is pulled back into the current window.
const DefaultTolerance = 10 * time.Second

// Stagger places process Index of Size evenly across a reload grid of
// period Interval aligned to the Unix epoch.
type Stagger struct {
	Interval  time.Duration
	Index     int
	Size      int
	Tolerance time.Duration
}

// Validate reports configuration errors.
func (s Stagger) Validate() error {
	if s.Interval <= 0 {
		return fmt.Errorf("reload interval must be positive, got %s", s.Interval)
	}
	if s.Size < 1 {
		return fmt.Errorf("fleet size must be >= 1, got %d", s.Size)
	}
	if s.Index < 0 || s.Index >= s.Size {
		return fmt.Errorf("fleet index %d out of range [0, %d)", s.Index, s.Size)
	}
	if s.Tolerance < 0 {
		return fmt.Errorf("tolerance must not be negative, got %s", s.Tolerance)
	}
	return nil
}

// Offset is this process' shift from the grid boundary, in [0, Interval).
func (s Stagger) Offset() time.Duration {
	if s.Size < 1 {
		return 0
	}
	return time.Duration(int64(s.Interval) * int64(s.Index) / int64(s.Size))
}

// Next returns the instant after now at which this process should attempt
// its next reload.
func (s Stagger) Next(now time.Time) time.Time {
	return now.Add(s.Wait(now))
}

// Wait returns the delay from now until Next(now). It is always positive.
func (s Stagger) Wait(now time.Time) time.Duration {
	if s.Interval <= 0 {
		return 0
	}
	into := now.UnixNano() % int64(s.Interval)
	if into < 0 {
		into += int64(s.Interval)
	}
	wait := s.Interval - time.Duration(into)
	wait += s.Offset()
	if wait-s.Interval > s.Tolerance {
		wait -= s.Interval
	}
	return wait
}

// Boundary returns the grid boundary the next wake time is staggered from.
func (s Stagger) Boundary(now time.Time) time.Time {
	return s.Next(now).Add(-s.Offset())
}
