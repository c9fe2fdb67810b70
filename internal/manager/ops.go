package manager

// Trigger asks the reload loop to run a cycle now instead of waiting for the
// next staggered instant. It reports false if a request is already pending.
// Without a running loop the request stays queued until Start.
func (m *Manager[R]) Trigger() bool {
	select {
	case m.trigger <- struct{}{}:
		return true
	default:
		return false
	}
}
