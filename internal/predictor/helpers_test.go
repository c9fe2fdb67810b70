package predictor

import (
	"swapd/internal/lock"
	"swapd/internal/manager"
	"swapd/internal/resource/linear"
	"swapd/pkg/types"
)

func typesReq(f map[string]float64) types.PredictRequest { return types.PredictRequest{Features: f} }

// busyModels reports a served model whose slot is always held exclusively.
type busyModels struct{}

func (busyModels) Acquire() (*manager.Lease[*linear.Model], error) {
	return nil, manager.ErrLockTimeout(manager.SlotA, "read", lock.ErrBusy)
}
func (busyModels) Status() types.StatusResponse { return types.StatusResponse{Ready: true} }
func (busyModels) Ready() bool                  { return true }
func (busyModels) Trigger() bool                { return false }
