package swapctl

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, cfg *Config, args ...string) (string, error) {
	t.Helper()
	root := buildRootCmdWith(cfg)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCLI_RequiresParentDir(t *testing.T) {
	if _, err := runCLI(t, &Config{Marker: "M"}, "list"); err == nil || !strings.Contains(err.Error(), "parent-dir") {
		t.Fatalf("expected parent-dir error, got %v", err)
	}
}

func TestCLI_PublishListPrune(t *testing.T) {
	parent := filepath.Join(t.TempDir(), "models")
	src := filepath.Join(t.TempDir(), "model.yaml")
	if err := os.WriteFile(src, []byte("weights: {a: 1}\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg := &Config{Prefix: "m_", Marker: "READY"}

	out, err := runCLI(t, cfg, "--parent-dir", parent, "publish", "--version", "m_001", src)
	if err != nil { t.Fatalf("publish: %v", err) }
	if strings.TrimSpace(out) != "m_001" { t.Fatalf("publish output %q", out) }
	if _, err := runCLI(t, cfg, "--parent-dir", parent, "publish", "--version", "m_002", src); err != nil {
		t.Fatalf("publish: %v", err)
	}

	out, err = runCLI(t, cfg, "--parent-dir", parent, "ls")
	if err != nil { t.Fatalf("list: %v", err) }
	if !strings.Contains(out, "m_002") || !strings.Contains(out, "(newest)") { t.Fatalf("list output %q", out) }

	out, err = runCLI(t, cfg, "--parent-dir", parent, "prune", "--keep", "1")
	if err != nil { t.Fatalf("prune: %v", err) }
	if !strings.Contains(out, "removed m_001") { t.Fatalf("prune output %q", out) }
}

func TestCLI_CompletionSkipsParentDir(t *testing.T) {
	out, err := runCLI(t, &Config{}, "completion", "bash")
	if err != nil { t.Fatalf("completion: %v", err) }
	if !strings.Contains(out, "swapctl") { t.Fatalf("unexpected completion output") }
}
