package manager

import (
	"errors"
	"fmt"
	"net/http"
)

// noValidVersionsError signals that no loadable version exists. It is fatal
// only before the first successful load.
type noValidVersionsError struct {
	dir   string
	cause error
}

func (e *noValidVersionsError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("no valid versions in %s: %v", e.dir, e.cause)
	}
	return "no valid versions in " + e.dir
}

func (e *noValidVersionsError) Unwrap() error { return e.cause }

// IsNoValidVersions reports whether err indicates an empty or missing artifact directory.
func IsNoValidVersions(err error) bool {
	var e *noValidVersionsError
	return errors.As(err, &e)
}

// loadFailureError wraps an error or panic raised by Resource.Load.
type loadFailureError struct {
	version string
	err     error
}

func (e *loadFailureError) Error() string { return "load " + e.version + ": " + e.err.Error() }

func (e *loadFailureError) Unwrap() error { return e.err }

// IsLoadFailure reports whether err is a failed Resource.Load.
func IsLoadFailure(err error) bool {
	var e *loadFailureError
	return errors.As(err, &e)
}

// lockTimeoutError signals that a slot lock could not be taken in time.
// Readers get it back from Acquire; the loop abandons the cycle.
type lockTimeoutError struct {
	slot SlotID
	op   string
	err  error
}

func (e *lockTimeoutError) Error() string {
	return fmt.Sprintf("%s slot %s: %v", e.op, e.slot, e.err)
}

func (e *lockTimeoutError) Unwrap() error { return e.err }

// StatusCode maps reader lock timeouts to 503 for the HTTP layer.
func (e *lockTimeoutError) StatusCode() int { return http.StatusServiceUnavailable }

// ErrLockTimeout constructs a lock timeout error for slot and op.
func ErrLockTimeout(slot SlotID, op string, err error) error {
	return &lockTimeoutError{slot: slot, op: op, err: err}
}

// IsLockTimeout reports whether err is a bounded lock attempt that failed.
func IsLockTimeout(err error) bool {
	var e *lockTimeoutError
	return errors.As(err, &e)
}

// notReadyError is returned to readers before the first successful load.
type notReadyError struct{}

func (notReadyError) Error() string { return "no resource loaded yet" }

func (notReadyError) StatusCode() int { return http.StatusServiceUnavailable }

// ErrNotReady is returned by Acquire before any version has been loaded.
var ErrNotReady error = notReadyError{}

// IsNotReady reports whether err indicates nothing is being served yet.
func IsNotReady(err error) bool {
	var e notReadyError
	return errors.As(err, &e)
}

// errSlotCurrent guards against resetting the slot readers are routed to.
var errSlotCurrent = errors.New("slot is current")
