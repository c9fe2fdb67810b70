package manager

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testMarker = "ModelSentinel.txt"

// fakeResource records the version directory it was loaded from. A payload
// of "boom" makes Load fail; "panic" makes it panic.
type fakeResource struct {
	id      string
	payload string
}

func newFake() *fakeResource { return &fakeResource{} }

func (f *fakeResource) Load(dir string) error {
	b, err := os.ReadFile(filepath.Join(dir, "payload"))
	if err != nil {
		return err
	}
	switch string(b) {
	case "boom":
		return errors.New("corrupt payload")
	case "panic":
		panic("decoder exploded")
	}
	f.id = filepath.Base(dir)
	f.payload = string(b)
	return nil
}

// writeVersion creates parent/name with a payload file and, if valid, the marker.
func writeVersion(t *testing.T, parent, name, payload string, valid bool) {
	t.Helper()
	dir := filepath.Join(parent, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "payload"), []byte(payload), 0o644); err != nil {
		t.Fatalf("write payload: %v", err)
	}
	if valid {
		if err := os.WriteFile(filepath.Join(dir, testMarker), []byte("ok"), 0o644); err != nil {
			t.Fatalf("write marker: %v", err)
		}
	}
}

func testConfig(parent string, pub EventPublisher) Config {
	return Config{
		ParentDir:        parent,
		Prefix:           "v",
		Marker:           testMarker,
		Retention:        -1,
		ReleaseGrace:     time.Millisecond,
		DrainRetryGrace:  time.Millisecond,
		LockTimeout:      20 * time.Millisecond,
		LoadLockTimeout:  20 * time.Millisecond,
		DrainLockTimeout: 20 * time.Millisecond,
		Publisher:        pub,
	}
}

func newTestManager(t *testing.T, cfg Config) *Manager[*fakeResource] {
	t.Helper()
	m, err := New(newFake, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

// eventually polls cond until it holds or the deadline passes.
func eventually(t *testing.T, d time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s: %s", d, msg)
}

// nonEmptySlots counts slots that hold a loaded resource.
func nonEmptySlots(s Snapshot) int {
	n := 0
	for _, sl := range s.Slots {
		if !sl.Empty() {
			n++
		}
	}
	return n
}
