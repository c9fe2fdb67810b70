package registry

import (
	"github.com/rs/zerolog"

	"swapd/pkg/types"
)

// PruneResult reports what a prune pass did.
type PruneResult struct {
	Removed []types.Version
	Failed  map[string]error
}

// Pruner deletes superseded and abandoned version directories.
type Pruner struct {
	FS     FS
	Logger zerolog.Logger
}

// Prune removes every valid version except the newest keep (valid must be
// sorted oldest first) and every invalid version. A negative keep retains
// all valid versions. Deletion failures are logged and reported, never
// returned as an error.
func (p Pruner) Prune(valid, invalid []types.Version, keep int) PruneResult {
	fs := p.FS
	if fs == nil {
		fs = OSFS{}
	}
	var doomed []types.Version
	if keep >= 0 && len(valid) > keep {
		doomed = append(doomed, valid[:len(valid)-keep]...)
	}
	doomed = append(doomed, invalid...)

	res := PruneResult{}
	for _, v := range doomed {
		if err := fs.RemoveAll(v.Path); err != nil {
			if res.Failed == nil {
				res.Failed = make(map[string]error)
			}
			res.Failed[v.ID] = err
			p.Logger.Warn().Err(err).Str("version", v.ID).Bool("valid", v.Valid).Msg("prune failed")
			continue
		}
		res.Removed = append(res.Removed, v)
		p.Logger.Info().Str("version", v.ID).Bool("valid", v.Valid).Msg("pruned version")
	}
	return res
}
