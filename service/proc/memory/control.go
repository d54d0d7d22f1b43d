package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/viant/rotor/model"
	"github.com/viant/rotor/service/proc"
)

// Signal names recorded by the fake
const (
	SignalPause     = "pause"
	SignalResume    = "resume"
	SignalTerminate = "terminate"
)

const killSignal = 9

type state int

const (
	stateStopped state = iota
	stateRunning
	stateExited
)

// Signal is a recorded signal delivery
type Signal struct {
	Handle model.Handle
	Name   string
}

type process struct {
	handle     model.Handle
	executable string
	state      state
}

// Control is an in-memory proc.Control. Processes never run; their state only
// changes through Control calls and the Exit/Stop simulation helpers.
type Control struct {
	mu         sync.Mutex
	nextHandle model.Handle
	processes  map[model.Handle]*process
	signals    []Signal
	changes    chan proc.Change
	spawnErrs  map[string]error
	closed     bool
}

// Option configures the fake
type Option func(c *Control)

// WithSpawnError makes Spawn of executable fail with err
func WithSpawnError(executable string, err error) Option {
	return func(c *Control) {
		c.spawnErrs[executable] = err
	}
}

// WithFirstHandle sets the handle assigned to the first spawned process
func WithFirstHandle(handle model.Handle) Option {
	return func(c *Control) {
		c.nextHandle = handle
	}
}

// New creates an in-memory control
func New(options ...Option) *Control {
	ret := &Control{
		nextHandle: 1000,
		processes:  make(map[model.Handle]*process),
		changes:    make(chan proc.Change, 1024),
		spawnErrs:  make(map[string]error),
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Spawn registers a stopped process
func (c *Control) Spawn(ctx context.Context, executable string, _ ...string) (model.Handle, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, proc.ErrClosed
	}
	if err, ok := c.spawnErrs[executable]; ok {
		return 0, fmt.Errorf("failed to spawn %v: %w", executable, err)
	}
	handle := c.nextHandle
	c.nextHandle++
	c.processes[handle] = &process{handle: handle, executable: executable, state: stateStopped}
	return handle, nil
}

// Pause stops a running process and reports the stop
func (c *Control) Pause(handle model.Handle) error {
	return c.signal(handle, SignalPause, func(p *process) {
		if p.state == stateRunning {
			p.state = stateStopped
			c.changes <- proc.Change{Handle: handle, Kind: proc.Stopped, Signal: 19}
		}
	})
}

// Resume continues a stopped process
func (c *Control) Resume(handle model.Handle) error {
	return c.signal(handle, SignalResume, func(p *process) {
		p.state = stateRunning
	})
}

// Terminate kills the process and reports its exit
func (c *Control) Terminate(handle model.Handle) error {
	return c.signal(handle, SignalTerminate, func(p *process) {
		p.state = stateExited
		c.changes <- proc.Change{Handle: handle, Kind: proc.Exited, ExitCode: -1, Signal: killSignal}
	})
}

func (c *Control) signal(handle model.Handle, name string, apply func(p *process)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.processes[handle]
	if !ok {
		return fmt.Errorf("%w: %v", proc.ErrUnknownHandle, handle)
	}
	if p.state == stateExited {
		return fmt.Errorf("%w: %v", proc.ErrExited, handle)
	}
	c.signals = append(c.signals, Signal{Handle: handle, Name: name})
	apply(p)
	return nil
}

// Exit simulates the process exiting on its own with code
func (c *Control) Exit(handle model.Handle, code int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.processes[handle]; ok && p.state != stateExited {
		p.state = stateExited
		c.changes <- proc.Change{Handle: handle, Kind: proc.Exited, ExitCode: code}
	}
}

// Stop simulates the process stopping itself
func (c *Control) Stop(handle model.Handle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.processes[handle]; ok && p.state == stateRunning {
		p.state = stateStopped
		c.changes <- proc.Change{Handle: handle, Kind: proc.Stopped, Signal: 19}
	}
}

// Running returns handles of processes currently running
func (c *Control) Running() []model.Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	var result []model.Handle
	for handle, p := range c.processes {
		if p.state == stateRunning {
			result = append(result, handle)
		}
	}
	return result
}

// Signals returns a copy of all recorded signal deliveries
func (c *Control) Signals() []Signal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Signal(nil), c.signals...)
}

// Resumed returns handles in the order they were resumed
func (c *Control) Resumed() []model.Handle {
	var result []model.Handle
	for _, signal := range c.Signals() {
		if signal.Name == SignalResume {
			result = append(result, signal.Handle)
		}
	}
	return result
}

// Changes returns state change stream
func (c *Control) Changes() <-chan proc.Change {
	return c.changes
}

// Close marks control as closed
func (c *Control) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

var _ proc.Control = (*Control)(nil)
