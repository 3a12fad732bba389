package monitoring

// Snapshot returns the current counter values for the JSON stats API.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}

// AvgRequestSeconds returns the mean HTTP request duration so far.
func (m *Metrics) AvgRequestSeconds() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.snapshot.RequestCount == 0 {
		return 0
	}
	return m.snapshot.TotalDuration / float64(m.snapshot.RequestCount)
}
