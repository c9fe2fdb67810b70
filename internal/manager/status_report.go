package manager

import (
	"swapd/pkg/types"
)

// Snapshot returns a consistent view of both slots and loop bookkeeping.
func (m *Manager[R]) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := Snapshot{
		Current:        m.CurrentSlot(),
		CurrentVersion: m.currentVersion,
		NextReloadAt:   m.nextReloadAt,
		FleetIndex:     m.cfg.FleetIndex,
		FleetSize:      m.cfg.FleetSize,
		Loads:          m.loads,
		LastError:      m.lastErr,
		TakenAt:        m.now(),
	}
	for i, s := range m.slots {
		readers, writing := s.lock.State()
		snap.Slots[i] = SlotSnapshot{
			ID:       s.id,
			State:    s.state(),
			Version:  s.version,
			LoadedAt: s.loadedAt,
			Readers:  readers,
			Writing:  writing,
		}
	}
	return snap
}

// Status renders Snapshot as the /status payload.
func (m *Manager[R]) Status() types.StatusResponse {
	snap := m.Snapshot()
	now := snap.TakenAt
	out := types.StatusResponse{
		Current:             snap.Current.String(),
		CurrentVersion:      snap.CurrentVersion,
		NextReloadAt:        unixOrZero(snap.NextReloadAt),
		NextReloadInSeconds: secondsUntil(now, snap.NextReloadAt),
		FleetIndex:          snap.FleetIndex,
		FleetSize:           snap.FleetSize,
		LoadsTotal:          snap.Loads,
		LastError:           snap.LastError,
		UptimeSeconds:       int64(now.Sub(m.startedAt).Seconds()),
		ServerTimeUnix:      now.Unix(),
		Ready:               snap.Current != SlotNone,
		Slots:               make([]types.SlotStatus, 0, len(snap.Slots)),
	}
	for _, s := range snap.Slots {
		st := types.SlotStatus{
			Slot:     s.ID.String(),
			State:    string(s.State),
			Version:  s.Version,
			LoadedAt: unixOrZero(s.LoadedAt),
			Readers:  s.Readers,
			Writing:  s.Writing,
		}
		if !s.LoadedAt.IsZero() {
			st.AgeSeconds = int64(now.Sub(s.LoadedAt).Seconds())
		}
		out.Slots = append(out.Slots, st)
	}
	return out
}
