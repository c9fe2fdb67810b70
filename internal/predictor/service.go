// Package predictor serves scores from the hot-swapped linear model and
// implements the HTTP API's Service.
package predictor

import (
	"context"

	"github.com/rs/zerolog"

	"swapd/internal/manager"
	"swapd/internal/resource/linear"
	"swapd/pkg/types"
)

// Models is the subset of *manager.Manager[*linear.Model] the service uses.
type Models interface {
	Acquire() (*manager.Lease[*linear.Model], error)
	Status() types.StatusResponse
	Ready() bool
	Trigger() bool
}

// Options configure degraded answers.
type Options struct {
	// FallbackScore is returned, flagged as a fallback, when the served
	// model cannot be read within the lock timeout.
	FallbackScore float64
	// DisableFallback turns busy reads into 503s instead.
	DisableFallback bool
	Logger          zerolog.Logger
}

// Service scores requests against the current model.
type Service struct {
	models Models
	opts   Options
}

func New(models Models, opts Options) *Service {
	return &Service{models: models, opts: opts}
}

func (s *Service) Ready() bool  { return s.models.Ready() }
func (s *Service) Reload() bool { return s.models.Trigger() }

// Status is the manager's status plus details of the served model. A busy
// or missing model just leaves Model unset.
func (s *Service) Status() types.StatusResponse {
	st := s.models.Status()
	lease, err := s.models.Acquire()
	if err != nil {
		return st
	}
	defer lease.Release()
	if m := lease.Resource; m.Loaded() {
		st.Model = &types.ModelInfo{Name: m.Name, Dir: m.Dir(), Features: m.Features()}
	}
	return st
}

// Predict scores req.Features with the served model. A busy model yields the
// fallback score unless fallbacks are disabled; no model at all is an error.
func (s *Service) Predict(ctx context.Context, req types.PredictRequest) (types.PredictResponse, error) {
	if err := ctx.Err(); err != nil {
		return types.PredictResponse{}, err
	}
	lease, err := s.models.Acquire()
	if err != nil {
		if manager.IsLockTimeout(err) && !s.opts.DisableFallback {
			s.opts.Logger.Debug().Err(err).Float64("score", s.opts.FallbackScore).Msg("model busy, answering with fallback")
			return types.PredictResponse{Score: s.opts.FallbackScore, Fallback: true}, nil
		}
		return types.PredictResponse{}, err
	}
	defer lease.Release()
	return types.PredictResponse{
		Score:   lease.Resource.Score(req.Features),
		Version: lease.Version,
	}, nil
}
