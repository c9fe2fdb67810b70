package types

// PredictRequest is the payload of POST /predict.
type PredictRequest struct {
	// Named numeric features fed to the served model.
	// example: {"ctr_7d":0.031,"is_new_user":1}
	Features map[string]float64 `json:"features"`
}

// PredictResponse is returned by POST /predict.
type PredictResponse struct {
	// Model score in [0, 1].
	// example: 0.73
	Score float64 `json:"score" example:"0.73"`
	// Version that produced the score. Empty for fallback answers.
	// example: net_model_20261016120000
	Version string `json:"version,omitempty" example:"net_model_20261016120000"`
	// True when the served model could not be read in time and the
	// configured fallback score was returned instead.
	// example: false
	Fallback bool `json:"fallback" example:"false"`
}

// ReloadResponse is returned by POST /reload.
type ReloadResponse struct {
	// Whether a new cycle was queued (false if one was already pending).
	// example: true
	Queued bool `json:"queued" example:"true"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// SlotStatus summarizes one of the two resource slots for /status.
type SlotStatus struct {
	// Slot identity (A or B).
	// example: A
	Slot string `json:"slot" example:"A"`
	// Lifecycle state: empty, loading, served or draining.
	// example: served
	State string `json:"state" example:"served"`
	// Version held by the slot, empty when unloaded.
	// example: net_model_20261016120000
	Version string `json:"version,omitempty" example:"net_model_20261016120000"`
	// Load time (unix seconds); 0 when unloaded.
	// example: 1700000000
	LoadedAt int64 `json:"loaded_at_unix" example:"1700000000"`
	// Seconds since the slot was loaded; 0 when unloaded.
	// example: 120
	AgeSeconds int64 `json:"age_seconds" example:"120"`
	// Readers currently holding the slot.
	// example: 3
	Readers int `json:"readers" example:"3"`
	// Whether the loader currently holds the slot exclusively.
	// example: false
	Writing bool `json:"writing" example:"false"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Slot currently serving reads (A, B or none).
	// example: A
	Current string `json:"current" example:"A"`
	// Version currently served.
	// example: net_model_20261016120000
	CurrentVersion string `json:"current_version" example:"net_model_20261016120000"`
	// Both resource slots.
	Slots []SlotStatus `json:"slots"`
	// Next scheduled reload attempt (unix seconds).
	// example: 1700001800
	NextReloadAt int64 `json:"next_reload_unix" example:"1700001800"`
	// Seconds until the next scheduled reload attempt.
	// example: 1680
	NextReloadInSeconds int64 `json:"next_reload_in_seconds" example:"1680"`
	// Position of this process in its reload fleet.
	// example: 1
	FleetIndex int `json:"fleet_index" example:"1"`
	// Number of processes sharing the artifact directory.
	// example: 4
	FleetSize int `json:"fleet_size" example:"4"`
	// Total successful loads since start.
	// example: 12
	LoadsTotal uint64 `json:"loads_total" example:"12"`
	// Last error observed by the reload loop (if any).
	LastError string `json:"last_error,omitempty"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
	// Whether a version is being served.
	// example: true
	Ready bool `json:"ready" example:"true"`
	// Served model details; absent when nothing is served or the model
	// was busy.
	Model *ModelInfo `json:"model,omitempty"`
}

// ModelInfo describes the model behind the current version.
type ModelInfo struct {
	// example: ctr
	Name string `json:"name,omitempty" example:"ctr"`
	// Version directory the model was loaded from.
	// example: /data/models/ctr/net_model_20261016120000
	Dir string `json:"dir" example:"/data/models/ctr/net_model_20261016120000"`
	// Feature names the model weighs, sorted.
	Features []string `json:"features"`
}
