package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/viant/rotor/service/messaging"
)

// quantumTimer is a one shot timer publishing quantumExpired notifications.
// Every arm starts a new generation so that an expiry published by an
// earlier arm is recognisable as stale.
type quantumTimer struct {
	quantum    time.Duration
	queue      messaging.Queue[notification]
	mux        sync.Mutex
	generation uint64
	timer      *time.Timer
	stopped    bool
}

func newQuantumTimer(quantum time.Duration, queue messaging.Queue[notification]) *quantumTimer {
	return &quantumTimer{quantum: quantum, queue: queue}
}

// arm (re)starts the quantum
func (t *quantumTimer) arm() {
	t.mux.Lock()
	defer t.mux.Unlock()
	if t.stopped {
		return
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	t.generation++
	generation := t.generation
	t.timer = time.AfterFunc(t.quantum, func() {
		t.publish(generation)
	})
}

// expire publishes an expiry of the current generation right away
func (t *quantumTimer) expire() {
	t.mux.Lock()
	generation := t.generation
	t.mux.Unlock()
	t.publish(generation)
}

func (t *quantumTimer) publish(generation uint64) {
	_ = t.queue.Publish(context.Background(), &notification{Kind: quantumExpired, Generation: generation})
}

// current reports whether generation belongs to the latest arm
func (t *quantumTimer) current(generation uint64) bool {
	t.mux.Lock()
	defer t.mux.Unlock()
	return !t.stopped && generation == t.generation
}

// stop disarms the timer for good
func (t *quantumTimer) stop() {
	t.mux.Lock()
	defer t.mux.Unlock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
	}
}
