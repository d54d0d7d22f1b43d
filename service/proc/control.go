package proc

import (
	"context"
	"fmt"

	"github.com/viant/rotor/model"
)

// ChangeKind represents kind of process state change
type ChangeKind int

const (
	// Exited indicates the process terminated, normally or by a signal.
	Exited ChangeKind = iota
	// Stopped indicates the process was stopped by a signal.
	Stopped
)

// String returns change kind name
func (k ChangeKind) String() string {
	switch k {
	case Exited:
		return "exited"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Change reports a state change of a spawned process
type Change struct {
	Handle   model.Handle
	Kind     ChangeKind
	ExitCode int
	// Signal is the terminating or stopping signal number, 0 for a normal exit.
	Signal int
}

// Control represents process control capability
type Control interface {
	// Spawn starts executable and returns once the new process is stopped and ready to be resumed.
	Spawn(ctx context.Context, executable string, args ...string) (model.Handle, error)

	// Pause stops a running process.
	Pause(handle model.Handle) error

	// Resume continues a stopped process.
	Resume(handle model.Handle) error

	// Terminate kills a process; its exit is reported later through Changes.
	Terminate(handle model.Handle) error

	// Changes streams state changes of spawned processes, excluding the readiness stop observed by Spawn.
	Changes() <-chan Change

	// Close releases resources held by the control.
	Close() error
}
