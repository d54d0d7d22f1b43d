package scheduler

import (
	"context"
	"strconv"
	"strings"

	"github.com/viant/rotor/model"
	"github.com/viant/rotor/tracing"
)

// launch spawns executable, waits until it is ready and stopped, then appends
// it to the registry. The mask must be held.
func (s *Service) launch(ctx context.Context, executable string, args ...string) (*model.Task, error) {
	ctx, span := tracing.StartSpan(ctx, "launch", tracing.KindInternal)
	span.WithAttributes(map[string]string{"executable": executable, "args": strings.Join(args, " ")})
	handle, err := s.control.Spawn(ctx, executable, args...)
	if err != nil {
		err = fatalf(err, "spawn %v", executable)
		tracing.EndSpan(span, err)
		return nil, err
	}
	task := s.registry.Insert(model.NewTask(handle, executable))
	span.WithAttributes(map[string]string{"task.id": strconv.Itoa(task.ID), "task.handle": task.Handle.String()})
	tracing.EndSpan(span, nil)

	s.logger.Printf("New process created with: %v", task)
	s.publish(ctx, model.EventSpawned, task)
	s.track(progressSpawn)
	return task, nil
}
