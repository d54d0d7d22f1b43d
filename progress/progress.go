package progress

import (
	"context"
	"sync"
	"time"

	"github.com/viant/rotor/internal/clock"
)

// Delta represents an incremental counter change. Fields are signed.
type Delta struct {
	Spawned  int
	Exited   int
	Killed   int
	Switches int
	Requests int
	Live     int
}

// Progress keeps aggregated counters of a scheduler run. It is safe for
// concurrent use.
type Progress struct {
	RunID     string
	StartedAt time.Time

	Spawned  int
	Exited   int
	Killed   int
	Switches int
	Requests int
	Live     int

	sync.Mutex
	onChange func(Progress)
}

// Update applies d. The onChange callback, if any, receives a copy of the
// counters outside the critical section.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}
	p.Lock()
	p.Spawned += d.Spawned
	p.Exited += d.Exited
	p.Killed += d.Killed
	p.Switches += d.Switches
	p.Requests += d.Requests
	p.Live += d.Live
	snapshot := p.copy()
	cb := p.onChange
	p.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the tracker suitable for read-only inspection.
func (p *Progress) Snapshot() Progress {
	if p == nil {
		return Progress{}
	}
	p.Lock()
	defer p.Unlock()
	return p.copy()
}

// OnChange registers a callback invoked after every Update, nil disables it.
func (p *Progress) OnChange(cb func(Progress)) {
	if p == nil {
		return
	}
	p.Lock()
	p.onChange = cb
	p.Unlock()
}

func (p *Progress) copy() Progress {
	return Progress{
		RunID:     p.RunID,
		StartedAt: p.StartedAt,
		Spawned:   p.Spawned,
		Exited:    p.Exited,
		Killed:    p.Killed,
		Switches:  p.Switches,
		Requests:  p.Requests,
		Live:      p.Live,
	}
}

type trackerKeyT struct{}

var trackerKey trackerKeyT

// New creates a tracker for runID
func New(runID string) *Progress {
	return &Progress{RunID: runID, StartedAt: clock.Now()}
}

// WithTracker embeds tracker in a derived context
func WithTracker(ctx context.Context, tracker *Progress) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, trackerKey, tracker)
}

// FromContext extracts the tracker from ctx
func FromContext(ctx context.Context) (*Progress, bool) {
	if ctx == nil {
		return nil, false
	}
	tr, ok := ctx.Value(trackerKey).(*Progress)
	return tr, ok
}

// UpdateCtx applies d to the tracker carried by ctx, if any.
func UpdateCtx(ctx context.Context, d Delta) {
	if tr, ok := FromContext(ctx); ok {
		tr.Update(d)
	}
}
