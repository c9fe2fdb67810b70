package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"swapd/pkg/types"
)

type mockService struct {
	status     types.StatusResponse
	ready      bool
	resp       types.PredictResponse
	predictErr error
	queued     bool
	reloads    int
	got        types.PredictRequest
}

func (m *mockService) Status() types.StatusResponse { return m.status }
func (m *mockService) Ready() bool                  { return m.ready }
func (m *mockService) Reload() bool                 { m.reloads++; return m.queued }
func (m *mockService) Predict(ctx context.Context, req types.PredictRequest) (types.PredictResponse, error) {
	m.got = req
	if m.predictErr != nil { return types.PredictResponse{}, m.predictErr }
	return m.resp, nil
}

type mockHTTPError struct{ msg string; code int }
func (e mockHTTPError) Error() string { return e.msg }
func (e mockHTTPError) StatusCode() int { return e.code }

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestStatusHandler(t *testing.T) {
	svc := &mockService{status: types.StatusResponse{Current: "B", CurrentVersion: "v2", LoadsTotal: 3}}
	r := NewMux(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))
	if w.Code != http.StatusOK { t.Fatalf("status=%d", w.Code) }
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") { t.Fatalf("content-type=%s", ct) }
	var body types.StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil { t.Fatalf("json: %v", err) }
	if body.Current != "B" || body.CurrentVersion != "v2" || body.LoadsTotal != 3 { t.Fatalf("unexpected body: %+v", body) }
}

func TestReadyz(t *testing.T) {
	svc := &mockService{ready: true}
	r := NewMux(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusOK { t.Fatalf("status=%d", w.Code) }
}

func TestReadyz_NotReady(t *testing.T) {
	svc := &mockService{ready: false}
	r := NewMux(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusServiceUnavailable { t.Fatalf("status=%d", w.Code) }
	if !strings.Contains(w.Body.String(), "loading") { t.Fatalf("body=%q", w.Body.String()) }
}

func TestHealthz(t *testing.T) {
	r := NewMux(&mockService{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK || w.Body.String() != "ok" { t.Fatalf("status=%d body=%q", w.Code, w.Body.String()) }
	if w.Header().Get("X-Content-Type-Options") != "nosniff" { t.Fatalf("missing nosniff header") }
}

func TestPredict_OK(t *testing.T) {
	svc := &mockService{resp: types.PredictResponse{Score: 0.75, Version: "v1"}}
	w := postJSON(t, NewMux(svc), "/predict", `{"features":{"a":1.5}}`)
	if w.Code != http.StatusOK { t.Fatalf("status=%d body=%s", w.Code, w.Body.String()) }
	var body types.PredictResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil { t.Fatalf("json: %v", err) }
	if body.Score != 0.75 || body.Version != "v1" || body.Fallback { t.Fatalf("unexpected body: %+v", body) }
	if svc.got.Features["a"] != 1.5 { t.Fatalf("features not passed through: %+v", svc.got) }
}

func TestPredict_BadRequests(t *testing.T) {
	h := NewMux(&mockService{})
	cases := map[string]string{
		"invalid json":     `{"features":`,
		"missing features": `{}`,
	}
	for name, body := range cases {
		w := postJSON(t, h, "/predict", body)
		if w.Code != http.StatusBadRequest { t.Fatalf("%s: status=%d", name, w.Code) }
		var e types.ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil { t.Fatalf("%s: json: %v", name, err) }
		if e.Code != http.StatusBadRequest || e.Error == "" { t.Fatalf("%s: unexpected error body %+v", name, e) }
	}

	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(`{"features":{}}`))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusUnsupportedMediaType { t.Fatalf("content-type check: status=%d", w.Code) }
}

func TestPredict_BodyTooLarge(t *testing.T) {
	SetMaxBodyBytes(16)
	defer SetMaxBodyBytes(0)
	big := `{"features":{"` + strings.Repeat("x", 64) + `":1}}`
	w := postJSON(t, NewMux(&mockService{}), "/predict", big)
	if w.Code != http.StatusBadRequest { t.Fatalf("status=%d", w.Code) }
}

func TestPredict_ErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{mockHTTPError{msg: "busy", code: http.StatusServiceUnavailable}, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		w := postJSON(t, NewMux(&mockService{predictErr: c.err}), "/predict", `{"features":{"a":1}}`)
		if w.Code != c.want { t.Fatalf("%v: status=%d want %d", c.err, w.Code, c.want) }
		if !bytes.Contains(w.Body.Bytes(), []byte(c.err.Error())) { t.Fatalf("body=%q", w.Body.String()) }
	}
}

func TestReload(t *testing.T) {
	svc := &mockService{queued: true}
	w := postJSON(t, NewMux(svc), "/reload", "")
	if w.Code != http.StatusAccepted { t.Fatalf("status=%d", w.Code) }
	var body types.ReloadResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil { t.Fatalf("json: %v", err) }
	if !body.Queued || svc.reloads != 1 { t.Fatalf("unexpected: %+v reloads=%d", body, svc.reloads) }
}

func TestCORS_OptIn(t *testing.T) {
	preflight := func(h http.Handler) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/predict", nil)
		req.Header.Set("Origin", "https://app.example")
		req.Header.Set("Access-Control-Request-Method", "POST")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}
	SetCORSOptions(false, nil, nil, nil)
	if got := preflight(NewMux(&mockService{})).Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("cors disabled but got allow-origin %q", got)
	}
	SetCORSOptions(true, []string{"https://app.example"}, nil, nil)
	defer SetCORSOptions(false, nil, nil, nil)
	if got := preflight(NewMux(&mockService{})).Header().Get("Access-Control-Allow-Origin"); got != "https://app.example" {
		t.Fatalf("allow-origin = %q", got)
	}
}
