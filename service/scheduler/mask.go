package scheduler

import "sync"

// mask is the masking window token. While it is held neither queued
// notifications nor control requests touch the registry.
type mask struct {
	mux sync.Mutex
}

func (m *mask) hold() {
	m.mux.Lock()
}

func (m *mask) release() {
	m.mux.Unlock()
}
