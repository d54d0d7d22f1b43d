package event

import (
	"time"

	"github.com/viant/rotor/internal/clock"
)

// Context identifies where an event originated
type Context struct {
	RunID     string `json:"runID"`
	TaskID    int    `json:"taskID"`
	Handle    int    `json:"handle"`
	EventType string `json:"eventType"`
}

// Event wraps a payload with its origin and creation time
type Event[T any] struct {
	Context   *Context               `json:"context"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Data      T                      `json:"data"`
}

// NewEvent creates an event
func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		Context:   context,
		CreatedAt: clock.Now(),
		Metadata:  make(map[string]interface{}),
		Data:      data,
	}
}
