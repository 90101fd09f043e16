package client

import "sync/atomic"

// Sequencer numbers fetches so that only the latest one is applied.
// Begin is called when a fetch starts, IsLatest when its result arrives.
type Sequencer struct {
	last atomic.Uint64
}

// Begin starts a new fetch and returns its ticket
func (s *Sequencer) Begin() uint64 {
	return s.last.Add(1)
}

// IsLatest reports whether no fetch was started after ticket
func (s *Sequencer) IsLatest(ticket uint64) bool {
	return s.last.Load() == ticket
}
