package e2e

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"swapd/internal/httpapi"
	"swapd/internal/manager"
	"swapd/internal/predictor"
	"swapd/internal/resource/linear"
)

const marker = "ModelSentinel.txt"

// publishVersion writes parent/name/model.yaml and, when valid, the marker
// file last, the way a producer is expected to publish.
func publishVersion(t *testing.T, parent, name string, bias float64, valid bool) {
	t.Helper()
	dir := filepath.Join(parent, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	body := []byte("name: ctr\nbias: " + ftoa(bias) + "\nweights:\n  clicks: 0.5\n  age: -0.25\n")
	if err := os.WriteFile(filepath.Join(dir, "model.yaml"), body, 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}
	if valid {
		if err := os.WriteFile(filepath.Join(dir, marker), []byte("ok"), 0o644); err != nil {
			t.Fatalf("write marker: %v", err)
		}
	}
}

func ftoa(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

type stack struct {
	srv *httptest.Server
	mgr *manager.Manager[*linear.Model]
}

func managerConfig(parent string) manager.Config {
	return manager.Config{
		ParentDir:        parent,
		Prefix:           "v",
		Marker:           marker,
		ReloadInterval:   time.Hour,
		Retention:        1,
		ReleaseGrace:     time.Millisecond,
		DrainRetryGrace:  time.Millisecond,
		LockTimeout:      50 * time.Millisecond,
		LoadLockTimeout:  50 * time.Millisecond,
		DrainLockTimeout: 50 * time.Millisecond,
	}
}

// newStack wires manager, predictor and HTTP mux over parent. When start is
// false the manager is left unloaded.
func newStack(t *testing.T, parent string, start bool) *stack {
	t.Helper()
	mgr, err := manager.New(linear.Factory(""), managerConfig(parent))
	if err != nil {
		t.Fatalf("manager.New: %v", err)
	}
	if start {
		ctx, cancel := context.WithCancel(context.Background())
		t.Cleanup(cancel)
		if err := mgr.Start(ctx); err != nil {
			t.Fatalf("Start: %v", err)
		}
	}
	svc := predictor.New(mgr, predictor.Options{FallbackScore: 0.5})
	srv := httptest.NewServer(httpapi.NewMux(svc))
	t.Cleanup(srv.Close)
	return &stack{srv: srv, mgr: mgr}
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func httpPostJSON(t *testing.T, url string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func eventually(t *testing.T, d time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out: %s", msg)
}
