package httpapi

import (
	"bytes"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"":      LevelOff,
		"off":   LevelOff,
		"error": LevelError,
		"info":  LevelInfo,
		"debug": LevelDebug,
		"weird": LevelInfo, // default
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRequestLogLevel_Overrides(t *testing.T) {
	// query param ?log=debug
	r := httptest.NewRequest("GET", "/x?log=debug", nil)
	if got := requestLogLevel(r); got != LevelDebug {
		t.Fatalf("query override failed: %v", got)
	}
	// shorthand ?log=1
	r = httptest.NewRequest("GET", "/x?log=1", nil)
	if got := requestLogLevel(r); got != LevelDebug {
		t.Fatalf("shorthand query override failed: %v", got)
	}
	// header X-Log-Level
	r = httptest.NewRequest("GET", "/x", nil)
	r.Header.Set("X-Log-Level", "error")
	if got := requestLogLevel(r); got != LevelError {
		t.Fatalf("header override failed: %v", got)
	}
	// process default
	old := defaultLogLevel
	defer func() { defaultLogLevel = old }()
	SetDefaultLogLevel("info")
	if got := requestLogLevel(httptest.NewRequest("GET", "/x", nil)); got != LevelInfo {
		t.Fatalf("default level not used: %v", got)
	}
}

func TestLogRequestEnd_Structured(t *testing.T) {
	var buf bytes.Buffer
	old := zlog
	defer func() { zlog = old }()
	SetLogger(zerolog.New(&buf))

	r := httptest.NewRequest("POST", "/predict", nil)
	logRequestEnd(r, LevelOff, "predict end", 200, time.Now(), nil)
	if buf.Len() != 0 {
		t.Fatalf("level off must not log: %q", buf.String())
	}
	logRequestEnd(r, LevelError, "predict end", 503, time.Now(), errors.New("busy"))
	out := buf.String()
	if !strings.Contains(out, `"status":503`) || !strings.Contains(out, `"error":"busy"`) || !strings.Contains(out, `"level":"error"`) {
		t.Fatalf("unexpected log line: %q", out)
	}
}
