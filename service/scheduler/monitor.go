package scheduler

import (
	"context"
	"errors"

	"github.com/viant/rotor/model"
	"github.com/viant/rotor/policy"
	"github.com/viant/rotor/service/proc"
)

// drain handles first and every notification queued behind it inside one
// masking window. done reports that the last task left the registry, rearm
// that a task was resumed and needs a fresh quantum.
func (s *Service) drain(ctx context.Context, first *notification) (done, rearm bool, err error) {
	s.mask.hold()
	defer s.mask.release()
	for next := first; next != nil; {
		finished, resumed, err := s.handle(ctx, next)
		if err != nil || finished {
			return finished, false, err
		}
		rearm = rearm || resumed
		message, err := s.queue.Poll(ctx)
		if err != nil {
			return false, rearm, err
		}
		if message == nil {
			break
		}
		s.ack(message)
		next = message.T()
	}
	return false, rearm, nil
}

func (s *Service) handle(ctx context.Context, n *notification) (done, rearm bool, err error) {
	switch n.Kind {
	case quantumExpired:
		return false, false, s.expired(ctx, n.Generation)
	case childChanged:
		return s.changed(ctx, n.Change)
	case failure:
		if errors.Is(n.Err, ErrFatal) {
			return false, false, n.Err
		}
		return false, false, fatalf(n.Err, "wait for process state change")
	}
	return false, false, nil
}

// expired pauses the running task; its stop notification drives the rotation
func (s *Service) expired(ctx context.Context, generation uint64) error {
	if !s.timer.current(generation) || s.running == nil {
		return nil
	}
	task := s.running
	s.logger.Printf("Stopping: %v", task.Handle)
	if err := s.control.Pause(task.Handle); err != nil {
		if errors.Is(err, proc.ErrExited) {
			return nil
		}
		return fatalf(err, "pause %v", task.Handle)
	}
	s.publish(ctx, model.EventPaused, task)
	return nil
}

func (s *Service) changed(ctx context.Context, change proc.Change) (done, rearm bool, err error) {
	task := s.registry.FindByHandle(change.Handle)
	if task == nil {
		s.logger.Printf("ignoring %v of untracked process %v", change.Kind, change.Handle)
		return false, false, nil
	}
	switch change.Kind {
	case proc.Exited:
		return s.exited(ctx, task, change)
	case proc.Stopped:
		if task != s.running {
			s.logger.Printf("ignoring stop of %v, it is not running", task.Handle)
			return false, false, nil
		}
		return false, true, s.resume(ctx, policy.Next(s.registry, task))
	}
	return false, false, nil
}

func (s *Service) exited(ctx context.Context, task *model.Task, change proc.Change) (done, rearm bool, err error) {
	s.logger.Printf("Process: %v has exited", task.Handle)
	s.recordExit(ctx, task, change)
	wasRunning := task == s.running
	successor := task.Next()
	if empty := s.registry.Remove(task); empty {
		s.running = nil
		return true, false, nil
	}
	if !wasRunning {
		return false, false, nil
	}
	s.running = nil
	return false, true, s.resume(ctx, policy.NextAfterExit(s.registry, successor))
}

// resume hands the processor to task. A task whose exit is already queued
// becomes running anyway, its exit notification moves the rotation on.
func (s *Service) resume(ctx context.Context, task *model.Task) error {
	s.running = task
	if err := s.control.Resume(task.Handle); err != nil {
		if errors.Is(err, proc.ErrExited) {
			return nil
		}
		return fatalf(err, "resume %v", task.Handle)
	}
	s.logger.Printf("Starting: %v", task.Handle)
	s.publish(ctx, model.EventResumed, task)
	s.track(progressSwitch)
	return nil
}
