package scheduler

import (
	"context"

	"github.com/viant/rotor/internal/clock"
	"github.com/viant/rotor/model"
	"github.com/viant/rotor/progress"
	"github.com/viant/rotor/service/event"
	"github.com/viant/rotor/service/proc"
)

var (
	progressSwitch  = progress.Delta{Switches: 1}
	progressSpawn   = progress.Delta{Spawned: 1, Live: 1}
	progressExit    = progress.Delta{Exited: 1, Live: -1}
	progressKill    = progress.Delta{Killed: 1, Live: -1}
	progressRequest = progress.Delta{Requests: 1}
)

func (s *Service) track(delta progress.Delta) {
	s.progress.Update(delta)
}

// publish emits a lifecycle event; delivery problems are only logged
func (s *Service) publish(ctx context.Context, eventType string, task *model.Task) {
	if s.publisher == nil {
		return
	}
	eventContext := &event.Context{TaskID: task.ID, Handle: int(task.Handle), EventType: eventType}
	if err := s.publisher.Publish(ctx, event.NewEvent(eventContext, *model.NewEvent(eventType, task))); err != nil {
		s.logger.Printf("failed to publish %v event of task %d: %v", eventType, task.ID, err)
	}
}

func (s *Service) recordExit(ctx context.Context, task *model.Task, change proc.Change) {
	outcome := model.EventExited
	delta := progressExit
	if s.killed[task.ID] {
		outcome = model.EventKilled
		delta = progressKill
		delete(s.killed, task.ID)
	}
	s.publish(ctx, outcome, task)
	s.track(delta)
	if s.exits == nil {
		return
	}
	exit := &model.Exit{
		TaskID:   task.ID,
		Handle:   task.Handle,
		Name:     task.Name,
		Outcome:  outcome,
		ExitCode: change.ExitCode,
		Signal:   change.Signal,
		ExitedAt: clock.Now(),
	}
	if err := s.exits.Save(ctx, exit); err != nil {
		s.logger.Printf("failed to record exit of task %d: %v", task.ID, err)
	}
}
