package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/viant/rotor/model"
	"github.com/viant/rotor/service/control"
	"github.com/viant/rotor/service/proc"
)

// Dispatch executes a control request inside the masking window and rearms
// the quantum once the window is released. Process control failures are
// handed to Run as fatal errors.
func (s *Service) Dispatch(ctx context.Context, request *control.Request) control.Code {
	s.mask.hold()
	code, err := s.dispatch(ctx, request)
	s.mask.release()
	s.track(progressRequest)
	if err != nil {
		s.fail(err)
	}
	s.timer.arm()
	return code
}

func (s *Service) dispatch(ctx context.Context, request *control.Request) (control.Code, error) {
	switch request.Kind {
	case control.KindList:
		s.list()
		return control.CodeOK, nil
	case control.KindKill:
		return s.kill(request.TaskID)
	case control.KindSpawn:
		if request.Path == "" {
			return control.CodeInvalid, nil
		}
		if _, err := s.launch(ctx, request.Path); err != nil {
			return control.CodeInvalid, err
		}
		return control.CodeOK, nil
	case control.KindRaisePriority:
		return s.setPriority(ctx, request.TaskID, model.PriorityElevated), nil
	case control.KindLowerPriority:
		return s.setPriority(ctx, request.TaskID, model.PriorityNormal), nil
	}
	s.logger.Printf("unsupported request: %v", request.Kind)
	return control.CodeNotImplemented, nil
}

func (s *Service) list() {
	s.registry.Each(func(task *model.Task) bool {
		marker := ""
		if task == s.running {
			marker = " (running)"
		}
		fmt.Fprintf(s.output, "%v%v\n", task, marker)
		return true
	})
}

// kill sends the terminate signal; the task leaves the registry once its
// exit notification is handled.
func (s *Service) kill(id int) (control.Code, error) {
	task := s.registry.FindByID(id)
	if task == nil {
		s.logger.Printf("no task with id %d", id)
		return control.CodeNotFound, nil
	}
	s.logger.Printf("Killing task %d with PID %v", task.ID, task.Handle)
	if err := s.control.Terminate(task.Handle); err != nil {
		if errors.Is(err, proc.ErrExited) {
			return control.CodeOK, nil
		}
		return control.CodeOK, fatalf(err, "terminate %v", task.Handle)
	}
	s.killed[task.ID] = true
	return control.CodeOK, nil
}

func (s *Service) setPriority(ctx context.Context, id int, priority model.Priority) control.Code {
	task := s.registry.FindByID(id)
	if task == nil {
		s.logger.Printf("no task with id %d", id)
		return control.CodeNotFound
	}
	if task.Priority == priority {
		s.logger.Printf("task %d is already on %v priority", task.ID, priority)
		return control.CodeOK
	}
	task.Priority = priority
	s.logger.Printf("setting task %d on %v priority", task.ID, priority)
	s.publish(ctx, model.EventPriority, task)
	return control.CodeOK
}

var _ control.Dispatcher = (*Service)(nil)
