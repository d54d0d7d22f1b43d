package model

import "time"

// Event types published by the scheduler
const (
	EventSpawned  = "spawned"
	EventResumed  = "resumed"
	EventPaused   = "paused"
	EventExited   = "exited"
	EventKilled   = "killed"
	EventPriority = "priority"
)

// Event describes a single scheduling action taken on a task
type Event struct {
	Type     string   `json:"type"`
	TaskID   int      `json:"taskId"`
	Handle   Handle   `json:"handle"`
	Name     string   `json:"name,omitempty"`
	Priority Priority `json:"priority"`
}

// Exit records how a task left the registry, Outcome is EventExited or EventKilled
type Exit struct {
	TaskID   int       `json:"taskId"`
	Handle   Handle    `json:"handle"`
	Name     string    `json:"name"`
	Outcome  string    `json:"outcome"`
	ExitCode int       `json:"exitCode"`
	Signal   int       `json:"signal,omitempty"`
	ExitedAt time.Time `json:"exitedAt"`
}

// NewEvent creates an event describing task
func NewEvent(eventType string, task *Task) *Event {
	return &Event{Type: eventType, TaskID: task.ID, Handle: task.Handle, Name: task.Name, Priority: task.Priority}
}

// Fields returns filterable attributes of the exit record
func (e *Exit) Fields() map[string]string {
	return map[string]string{"Name": e.Name, "Outcome": e.Outcome}
}
