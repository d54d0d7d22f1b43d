//go:build linux || darwin

package local

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/viant/rotor/model"
	"github.com/viant/rotor/service/proc"
	"golang.org/x/sys/unix"
)

// Control manages real operating system processes.
//
// A single reaper goroutine owns every wait4 call: readiness stops of freshly
// spawned processes are routed back to Spawn, everything else is streamed on
// Changes.
type Control struct {
	executable string
	stdin      *os.File

	mu      sync.Mutex
	tracked map[model.Handle]*entry

	changes   chan proc.Change
	wake      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	errMu     sync.Mutex
	err       error
}

type entry struct {
	name   string
	ready  chan error
	exited bool
}

// Option configures local control
type Option func(c *Control)

// WithExecutable overrides the trampoline binary, os.Executable() by default
func WithExecutable(path string) Option {
	return func(c *Control) {
		c.executable = path
	}
}

// New creates a local process control and starts its reaper
func New(options ...Option) (*Control, error) {
	ret := &Control{
		tracked: make(map[model.Handle]*entry),
		changes: make(chan proc.Change, 256),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	for _, option := range options {
		option(ret)
	}
	if ret.executable == "" {
		self, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to locate trampoline executable: %w", err)
		}
		ret.executable = self
	}
	stdin, err := os.Open(os.DevNull)
	if err != nil {
		return nil, fmt.Errorf("failed to open %v: %w", os.DevNull, err)
	}
	ret.stdin = stdin
	go ret.reap()
	return ret, nil
}

// Spawn starts executable behind the trampoline and blocks until the new
// process has stopped itself, before its image is replaced.
func (c *Control) Spawn(ctx context.Context, executable string, args ...string) (model.Handle, error) {
	select {
	case <-c.done:
		return 0, proc.ErrClosed
	default:
	}
	attr := &os.ProcAttr{
		Env:   append(os.Environ(), TrampolineEnv+"=1"),
		Files: []*os.File{c.stdin, os.Stdout, os.Stderr},
	}
	argv := append([]string{c.executable, executable}, args...)

	c.mu.Lock()
	process, err := os.StartProcess(c.executable, argv, attr)
	if err != nil {
		c.mu.Unlock()
		return 0, fmt.Errorf("failed to spawn %v: %w", executable, err)
	}
	handle := model.Handle(process.Pid)
	_ = process.Release()
	ready := make(chan error, 1)
	c.tracked[handle] = &entry{name: executable, ready: ready}
	c.mu.Unlock()
	c.notifyReaper()

	select {
	case err = <-ready:
		if err != nil {
			return 0, fmt.Errorf("failed to spawn %v: %w", executable, err)
		}
		return handle, nil
	case <-ctx.Done():
		_ = unix.Kill(int(handle), unix.SIGKILL)
		return 0, ctx.Err()
	}
}

// Pause sends SIGSTOP
func (c *Control) Pause(handle model.Handle) error {
	return c.signal(handle, unix.SIGSTOP)
}

// Resume sends SIGCONT
func (c *Control) Resume(handle model.Handle) error {
	return c.signal(handle, unix.SIGCONT)
}

// Terminate sends SIGKILL
func (c *Control) Terminate(handle model.Handle) error {
	return c.signal(handle, unix.SIGKILL)
}

func (c *Control) signal(handle model.Handle, sig unix.Signal) error {
	c.mu.Lock()
	e, ok := c.tracked[handle]
	exited := ok && e.exited
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %v", proc.ErrUnknownHandle, handle)
	}
	if exited {
		return fmt.Errorf("%w: %v", proc.ErrExited, handle)
	}
	if err := unix.Kill(int(handle), sig); err != nil {
		if errors.Is(err, unix.ESRCH) {
			return fmt.Errorf("%w: %v", proc.ErrExited, handle)
		}
		return fmt.Errorf("failed to send %v to %v: %w", unix.SignalName(sig), handle, err)
	}
	return nil
}

// Changes returns state change stream; it is closed when waiting fails.
func (c *Control) Changes() <-chan proc.Change {
	return c.changes
}

// Err returns the wait failure that closed Changes
func (c *Control) Err() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.err
}

// Close stops accepting spawns; running processes are left untouched.
func (c *Control) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.stdin.Close()
	})
	return nil
}

func (c *Control) notifyReaper() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *Control) reap() {
	for {
		var status unix.WaitStatus
		pid, err := unix.Wait4(-1, &status, unix.WUNTRACED, nil)
		switch {
		case err == nil:
			c.dispatch(model.Handle(pid), status)
		case errors.Is(err, unix.EINTR):
		case errors.Is(err, unix.ECHILD):
			select {
			case <-c.wake:
			case <-c.done:
				return
			}
		default:
			c.errMu.Lock()
			c.err = fmt.Errorf("failed to wait for process state change: %w", err)
			c.errMu.Unlock()
			close(c.changes)
			return
		}
	}
}

func (c *Control) dispatch(handle model.Handle, status unix.WaitStatus) {
	c.mu.Lock()
	e, ok := c.tracked[handle]
	if !ok {
		c.mu.Unlock()
		return
	}
	if ready := e.ready; ready != nil {
		e.ready = nil
		if !status.Stopped() {
			delete(c.tracked, handle)
		}
		c.mu.Unlock()
		if status.Stopped() {
			ready <- nil
		} else {
			ready <- fmt.Errorf("process %v exited before becoming ready: status %v", handle, describe(status))
		}
		return
	}
	change, ok := toChange(handle, status)
	if !ok {
		c.mu.Unlock()
		return
	}
	if change.Kind == proc.Exited {
		e.exited = true
	}
	c.mu.Unlock()
	c.changes <- change
}

func toChange(handle model.Handle, status unix.WaitStatus) (proc.Change, bool) {
	switch {
	case status.Exited():
		return proc.Change{Handle: handle, Kind: proc.Exited, ExitCode: status.ExitStatus()}, true
	case status.Signaled():
		return proc.Change{Handle: handle, Kind: proc.Exited, ExitCode: -1, Signal: int(status.Signal())}, true
	case status.Stopped():
		return proc.Change{Handle: handle, Kind: proc.Stopped, Signal: int(status.StopSignal())}, true
	}
	return proc.Change{}, false
}

func describe(status unix.WaitStatus) string {
	switch {
	case status.Exited():
		return fmt.Sprintf("exit %d", status.ExitStatus())
	case status.Signaled():
		return fmt.Sprintf("signal %v", unix.SignalName(status.Signal()))
	}
	return fmt.Sprintf("%#x", uint32(status))
}

var _ proc.Control = (*Control)(nil)
