package model

import (
	"fmt"
	"strconv"
)

// Handle identifies an operating system process. It is opaque to everything
// but the process control implementation.
type Handle int

// String returns decimal handle representation
func (h Handle) String() string {
	return strconv.Itoa(int(h))
}

// Priority represents task priority class
type Priority int

const (
	// PriorityNormal takes part in plain round robin.
	PriorityNormal Priority = iota
	// PriorityElevated always gets a turn before rotation returns to normal tasks.
	PriorityElevated
)

// String returns priority name
func (p Priority) String() string {
	switch p {
	case PriorityNormal:
		return "normal"
	case PriorityElevated:
		return "elevated"
	default:
		return fmt.Sprintf("unknown(%d)", int(p))
	}
}

// Task represents a single managed process
type Task struct {
	ID       int      `json:"id" yaml:"id"`
	Handle   Handle   `json:"handle" yaml:"handle"`
	Name     string   `json:"name" yaml:"name"`
	Priority Priority `json:"priority" yaml:"priority"`

	next *Task
	prev *Task
}

// NewTask creates a detached task; the registry assigns its ID on insert.
func NewTask(handle Handle, name string) *Task {
	return &Task{Handle: handle, Name: name, Priority: PriorityNormal}
}

// Next returns the following task in traversal order
func (t *Task) Next() *Task {
	return t.next
}

// Prev returns the preceding task in traversal order
func (t *Task) Prev() *Task {
	return t.prev
}

// IsElevated returns true if task has elevated priority
func (t *Task) IsElevated() bool {
	return t.Priority == PriorityElevated
}

// String returns a listing line for the task
func (t *Task) String() string {
	return fmt.Sprintf("Id: %d, PID: %d, Name: %s, Priority: %s", t.ID, t.Handle, t.Name, t.Priority)
}
