package rotor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/viant/rotor/model"
	"github.com/viant/rotor/progress"
	"github.com/viant/rotor/service/control"
	"github.com/viant/rotor/service/dao"
	"github.com/viant/rotor/service/event"
	"github.com/viant/rotor/service/proc"
	"github.com/viant/rotor/service/scheduler"
	"github.com/viant/rotor/tracing"
)

// Runtime is the operational surface of a scheduler run
type Runtime struct {
	runID     string
	scheduler *scheduler.Service
	control   proc.Control
	events    *event.Service
	exits     dao.Service[int, model.Exit]
	progress  *progress.Progress
	logger    *log.Logger
}

// RunID returns the identifier stamped on every lifecycle event of this run
func (r *Runtime) RunID() string {
	return r.runID
}

// Launch spawns a command line as a new stopped task
func (r *Runtime) Launch(ctx context.Context, command string) (*model.Task, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	return r.scheduler.Launch(ctx, fields[0], fields[1:]...)
}

// Boot launches commands in order, ids are assigned 1..N
func (r *Runtime) Boot(ctx context.Context, commands ...string) error {
	for _, command := range commands {
		if _, err := r.Launch(ctx, command); err != nil {
			return err
		}
	}
	return nil
}

// Run schedules until the registry is empty, see scheduler.Service.Run
func (r *Runtime) Run(ctx context.Context) error {
	return r.scheduler.Run(ctx)
}

// Dispatch executes a single control request
func (r *Runtime) Dispatch(ctx context.Context, request *control.Request) control.Code {
	return r.scheduler.Dispatch(ctx, request)
}

// ServeControl services controller requests from in, answering on out, until
// the controller goes away. A failed channel only ends control servicing.
func (r *Runtime) ServeControl(ctx context.Context, in io.Reader, out io.Writer) error {
	server := control.NewServer(r.scheduler, control.WithServerLogger(r.logger))
	err := server.Serve(ctx, in, out)
	switch {
	case err == nil:
		r.logger.Printf("controller closed its channel")
	case ctx.Err() == nil:
		r.logger.Printf("giving up on controller: %v", err)
	}
	return err
}

// Tasks returns the registry in traversal order
func (r *Runtime) Tasks() []model.Task {
	return r.scheduler.Tasks()
}

// Exits returns recorded exits matching parameters (Name, Outcome)
func (r *Runtime) Exits(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Exit, error) {
	return r.exits.List(ctx, parameters...)
}

// Progress returns a snapshot of the run counters
func (r *Runtime) Progress() progress.Progress {
	return r.progress.Snapshot()
}

// Shutdown terminates remaining tasks and releases services
func (r *Runtime) Shutdown(ctx context.Context) error {
	terminated, err := r.scheduler.TerminateAll()
	if terminated > 0 {
		r.logger.Printf("terminated %d remaining task(s)", terminated)
	}
	r.events.Close()
	return errors.Join(err, r.control.Close(), tracing.Shutdown(ctx))
}
