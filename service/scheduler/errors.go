package scheduler

import (
	"errors"
	"fmt"
)

var (
	// ErrFatal marks process control failures that end the scheduler.
	ErrFatal = errors.New("scheduler: fatal process control failure")

	// ErrNoTasks is returned by Run when there is nothing to schedule.
	ErrNoTasks = errors.New("scheduler: no tasks")

	// ErrAlreadyRunning is returned by a second concurrent Run.
	ErrAlreadyRunning = errors.New("scheduler: already running")
)

// fatalf wraps err as ErrFatal with context
func fatalf(err error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s: %w", ErrFatal, fmt.Sprintf(format, args...), err)
}
