package idgen

import "github.com/google/uuid"

// NewFunc generates identifiers, override in tests.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new globally unique identifier.
func New() string { return NewFunc() }

// NewRunID returns a short identifier for a scheduler run.
func NewRunID() string {
	id := New()
	if len(id) > 8 {
		id = id[:8]
	}
	return "run-" + id
}
