package e2e

import (
	"encoding/json"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swapd/pkg/types"
)

func predict(t *testing.T, s *stack, features string) (int, types.PredictResponse) {
	t.Helper()
	resp, body := httpPostJSON(t, s.srv.URL+"/predict", []byte(`{"features":`+features+`}`))
	var out types.PredictResponse
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.Unmarshal(body, &out), string(body))
	}
	return resp.StatusCode, out
}

func status(t *testing.T, s *stack) types.StatusResponse {
	t.Helper()
	resp, body := httpGet(t, s.srv.URL+"/status")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var st types.StatusResponse
	require.NoError(t, json.Unmarshal(body, &st))
	return st
}

func sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

func TestE2E_NotReadyBeforeFirstLoad(t *testing.T) {
	parent := t.TempDir()
	publishVersion(t, parent, "v001", 0, true)
	s := newStack(t, parent, false)

	resp, _ := httpGet(t, s.srv.URL+"/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	code, _ := predict(t, s, `{"clicks":1}`)
	assert.Equal(t, http.StatusServiceUnavailable, code)

	st := status(t, s)
	assert.False(t, st.Ready)
	assert.Equal(t, "none", st.Current)
	assert.Empty(t, st.CurrentVersion)
}

func TestE2E_ServeSwapAndPrune(t *testing.T) {
	parent := t.TempDir()
	publishVersion(t, parent, "v001", 0, true)
	publishVersion(t, parent, "v000", 0, false)
	s := newStack(t, parent, true)

	resp, _ := httpGet(t, s.srv.URL+"/readyz")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	code, out := predict(t, s, `{"clicks":2,"unknown":9}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "v001", out.Version)
	assert.False(t, out.Fallback)
	assert.InDelta(t, sigmoid(1), out.Score, 1e-9)

	st := status(t, s)
	assert.True(t, st.Ready)
	assert.Equal(t, "A", st.Current)
	assert.Equal(t, "v001", st.CurrentVersion)
	assert.EqualValues(t, 1, st.LoadsTotal)
	assert.NoDirExists(t, filepath.Join(parent, "v000"), "invalid version pruned after first load")

	publishVersion(t, parent, "v002", 1, true)
	resp, body := httpPostJSON(t, s.srv.URL+"/reload", nil)
	require.Equal(t, http.StatusAccepted, resp.StatusCode, string(body))

	eventually(t, 2*time.Second, func() bool {
		_, out := predict(t, s, `{"clicks":2}`)
		return out.Version == "v002"
	}, "v002 served after reload")

	_, out = predict(t, s, `{"clicks":2}`)
	assert.InDelta(t, sigmoid(2), out.Score, 1e-9)

	eventually(t, 2*time.Second, func() bool {
		st := status(t, s)
		for _, sl := range st.Slots {
			if sl.Slot == "A" && sl.Version == "" {
				return true
			}
		}
		return false
	}, "previous slot drained")

	st = status(t, s)
	assert.Equal(t, "B", st.Current)
	assert.Equal(t, "v002", st.CurrentVersion)
	assert.EqualValues(t, 2, st.LoadsTotal)
	assert.Empty(t, st.LastError)
	require.NotNil(t, st.Model)
	assert.Equal(t, "ctr", st.Model.Name)
	assert.Equal(t, []string{"age", "clicks"}, st.Model.Features)
	assert.Equal(t, "v002", filepath.Base(st.Model.Dir))
	assert.NoDirExists(t, filepath.Join(parent, "v001"))
	assert.DirExists(t, filepath.Join(parent, "v002"))
}

func TestE2E_BadVersionKeepsServing(t *testing.T) {
	parent := t.TempDir()
	publishVersion(t, parent, "v001", 0, true)
	s := newStack(t, parent, true)

	// Unmarked directory is ignored entirely.
	publishVersion(t, parent, "v002", 3, false)
	// Marked but undecodable model fails to load.
	dir := filepath.Join(parent, "v003")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "model.yaml"), []byte("weights: [oops"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, marker), []byte("ok"), 0o644))

	resp, _ := httpPostJSON(t, s.srv.URL+"/reload", nil)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	eventually(t, 2*time.Second, func() bool {
		return status(t, s).LastError != ""
	}, "load failure recorded")

	code, out := predict(t, s, `{"clicks":0}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "v001", out.Version)

	st := status(t, s)
	assert.Equal(t, "v001", st.CurrentVersion)
	assert.EqualValues(t, 1, st.LoadsTotal)
}

func TestE2E_RequestValidation(t *testing.T) {
	parent := t.TempDir()
	publishVersion(t, parent, "v001", 0, true)
	s := newStack(t, parent, true)

	req, err := http.NewRequest(http.MethodPost, s.srv.URL+"/predict", nil)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "text/plain")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)

	resp, _ = httpPostJSON(t, s.srv.URL+"/predict", []byte(`{`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = httpPostJSON(t, s.srv.URL+"/predict", []byte(`{}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := httpGet(t, s.srv.URL+"/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "swapd_")
}
