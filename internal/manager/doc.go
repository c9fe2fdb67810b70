// Package manager keeps a large, read-mostly resource (a scoring model, a
// lookup table, an index) hot-swappable while it is being read.
//
// A Manager owns two slots, A and B. Exactly one is current once the first
// load succeeded. A background loop wakes on a fleet-staggered schedule,
// scans the artifact directory for the newest valid version and, if it is
// newer than the one served, loads it into the non-current slot under that
// slot's exclusive lock. Only after the load returned successfully is the
// current index flipped. The previously current slot is reset after a grace
// period, and superseded versions are pruned from disk.
//
// Files by concern:
//
//   - manager.go: Manager type, constructor, simple getters.
//   - config.go: Config and package defaults.
//   - types.go: slot identities, reload outcomes, snapshots.
//   - slot.go: slot container and its lifecycle state machine.
//   - reload.go: one reload cycle (scan, load, publish, prune).
//   - drain.go: delayed reset of the superseded slot.
//   - loop.go: Start and the background loop.
//   - access.go: reader-facing Acquire/With.
//   - ops.go: operator trigger.
//   - status_report.go: Snapshot/Status reporting.
//   - errors.go: error types and helpers (IsNoValidVersions, IsLockTimeout, ...).
//   - events.go, eventpub_memory.go: lifecycle events.
//   - metrics.go: Prometheus collectors.
//
// The loop goroutine lives until the context passed to Start is canceled;
// a Manager is expected to live as long as its process.
package manager
