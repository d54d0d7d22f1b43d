package scheduler

import (
	"io"
	"log"
	"time"

	"github.com/viant/rotor/model"
	"github.com/viant/rotor/progress"
	"github.com/viant/rotor/service/dao"
	"github.com/viant/rotor/service/event"
	"github.com/viant/rotor/service/proc"
)

// Config represents scheduler configuration
type Config struct {
	// Quantum is the time slice a task runs before it is paused
	Quantum time.Duration
	// QueueBuffer is the capacity of the notification queue
	QueueBuffer int
}

// DefaultConfig returns the default scheduler configuration
func DefaultConfig() Config {
	return Config{
		Quantum:     2 * time.Second,
		QueueBuffer: 1024,
	}
}

type Option func(s *Service)

// WithControl sets the process control implementation
func WithControl(control proc.Control) Option {
	return func(s *Service) {
		s.control = control
	}
}

// WithQuantum sets the time quantum
func WithQuantum(quantum time.Duration) Option {
	return func(s *Service) {
		s.config.Quantum = quantum
	}
}

// WithQueueBuffer sets the notification queue capacity
func WithQueueBuffer(size int) Option {
	return func(s *Service) {
		s.config.QueueBuffer = size
	}
}

// WithLogger sets the diagnostic logger
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithOutput sets where LIST prints tasks, os.Stdout by default
func WithOutput(w io.Writer) Option {
	return func(s *Service) {
		s.output = w
	}
}

// WithPublisher publishes a lifecycle event for every scheduling action
func WithPublisher(publisher *event.Publisher[model.Event]) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

// WithExitStore records an exit entry for every task that leaves the registry
func WithExitStore(store dao.Service[int, model.Exit]) Option {
	return func(s *Service) {
		s.exits = store
	}
}

// WithProgress sets the counters tracker
func WithProgress(tracker *progress.Progress) Option {
	return func(s *Service) {
		s.progress = tracker
	}
}
