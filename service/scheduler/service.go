package scheduler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync/atomic"

	"github.com/viant/rotor/model"
	"github.com/viant/rotor/progress"
	"github.com/viant/rotor/service/dao"
	"github.com/viant/rotor/service/event"
	"github.com/viant/rotor/service/messaging"
	"github.com/viant/rotor/service/messaging/memory"
	"github.com/viant/rotor/service/proc"
)

// Service is a preemptive round robin scheduler over externally spawned
// processes.
type Service struct {
	config    Config
	control   proc.Control
	logger    *log.Logger
	output    io.Writer
	publisher *event.Publisher[model.Event]
	exits     dao.Service[int, model.Exit]
	progress  *progress.Progress

	mask     mask
	registry *model.Registry
	running  *model.Task
	killed   map[int]bool

	queue   *memory.Queue[notification]
	timer   *quantumTimer
	started atomic.Bool
}

// New creates a scheduler
func New(options ...Option) (*Service, error) {
	s := &Service{
		config:   DefaultConfig(),
		registry: model.NewRegistry(),
		killed:   make(map[int]bool),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.control == nil {
		return nil, fmt.Errorf("process control is required")
	}
	if s.config.Quantum <= 0 {
		return nil, fmt.Errorf("invalid quantum: %v", s.config.Quantum)
	}
	if s.logger == nil {
		s.logger = log.New(os.Stderr, "rotor: ", log.LstdFlags)
	}
	if s.output == nil {
		s.output = os.Stdout
	}
	queueConfig := memory.DefaultConfig()
	if s.config.QueueBuffer > 0 {
		queueConfig.QueueBuffer = s.config.QueueBuffer
	}
	queueConfig.MaxRetries = 0
	s.queue = memory.NewQueue[notification](queueConfig)
	s.timer = newQuantumTimer(s.config.Quantum, s.queue)
	return s, nil
}

// Launch spawns executable and appends it to the registry as a stopped task
func (s *Service) Launch(ctx context.Context, executable string, args ...string) (*model.Task, error) {
	s.mask.hold()
	defer s.mask.release()
	return s.launch(ctx, executable, args...)
}

// Tasks returns a snapshot of the registry in traversal order
func (s *Service) Tasks() []model.Task {
	s.mask.hold()
	defer s.mask.release()
	var result []model.Task
	for _, task := range s.registry.Tasks() {
		result = append(result, *task)
	}
	return result
}

// Running returns a copy of the task holding the processor, if any
func (s *Service) Running() (model.Task, bool) {
	s.mask.hold()
	defer s.mask.release()
	if s.running == nil {
		return model.Task{}, false
	}
	return *s.running, true
}

// Run resumes the first task and rotates until the registry is empty (nil),
// ctx is done (ctx error) or process control fails (wrapped ErrFatal).
func (s *Service) Run(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer s.timer.stop()

	bridgeCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.bridge(bridgeCtx)

	s.mask.hold()
	head := s.registry.Head()
	if head == nil {
		s.mask.release()
		return ErrNoTasks
	}
	err := s.resume(ctx, head)
	s.mask.release()
	if err != nil {
		return err
	}
	s.timer.arm()

	for {
		message, err := s.queue.Consume(ctx)
		if err != nil {
			return err
		}
		done, rearm, err := s.drain(ctx, message.T())
		s.ack(message)
		if err != nil {
			return err
		}
		if done {
			s.logger.Printf("all tasks ended")
			return nil
		}
		if rearm {
			s.timer.arm()
		}
	}
}

// bridge forwards process state changes into the notification queue
func (s *Service) bridge(ctx context.Context) {
	changes := s.control.Changes()
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-changes:
			if !ok {
				err := errors.New("process state changes closed")
				if reporter, ok := s.control.(interface{ Err() error }); ok && reporter.Err() != nil {
					err = reporter.Err()
				}
				_ = s.queue.Publish(ctx, &notification{Kind: failure, Err: err})
				return
			}
			if err := s.queue.Publish(ctx, &notification{Kind: childChanged, Change: change}); err != nil {
				return
			}
		}
	}
}

// ack settles a consumed notification
func (s *Service) ack(message messaging.Message[notification]) {
	if err := message.Ack(); err != nil {
		s.logger.Printf("failed to ack notification: %v", err)
	}
}

// fail hands a fatal error to the event loop
func (s *Service) fail(err error) {
	_ = s.queue.Publish(context.Background(), &notification{Kind: failure, Err: err})
}

// TerminateAll sends the terminate signal to every task still in the
// registry, used when the scheduler is abandoned before the registry empties.
func (s *Service) TerminateAll() (int, error) {
	s.mask.hold()
	defer s.mask.release()
	terminated := 0
	var errs []error
	s.registry.Each(func(task *model.Task) bool {
		err := s.control.Terminate(task.Handle)
		switch {
		case err == nil:
			terminated++
			s.killed[task.ID] = true
		case !errors.Is(err, proc.ErrExited):
			errs = append(errs, fmt.Errorf("terminate %v: %w", task.Handle, err))
		}
		return true
	})
	return terminated, errors.Join(errs...)
}
