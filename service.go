package rotor

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/viant/afs/url"
	"github.com/viant/rotor/internal/idgen"
	"github.com/viant/rotor/model"
	"github.com/viant/rotor/progress"
	"github.com/viant/rotor/service/dao"
	exitfs "github.com/viant/rotor/service/dao/exit/fs"
	exitmemory "github.com/viant/rotor/service/dao/exit/memory"
	"github.com/viant/rotor/service/event"
	"github.com/viant/rotor/service/messaging"
	"github.com/viant/rotor/service/messaging/fs"
	"github.com/viant/rotor/service/messaging/memory"
	"github.com/viant/rotor/service/proc"
	"github.com/viant/rotor/service/scheduler"
	"github.com/viant/rotor/tracing"
)

// Version is reported as the tracing service version
const Version = "0.1.0"

// Service wires the scheduler with its process control, event, exit and
// tracing services.
type Service struct {
	config       *Config
	control      proc.Control
	logger       *log.Logger
	output       io.Writer
	eventService *event.Service
	eventHandler func(*event.Event[model.Event])
	exits        dao.Service[int, model.Exit]
	initErr      error
	runtime      *Runtime
}

// Runtime returns the scheduler runtime
func (s *Service) Runtime() *Runtime {
	return s.runtime
}

// Config returns the effective configuration
func (s *Service) Config() *Config {
	return s.config
}

func (s *Service) ensureBaseSetup(runID string) error {
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if err := s.config.Validate(); err != nil {
		return err
	}
	if s.logger == nil {
		s.logger = log.New(os.Stderr, "rotor: ", log.LstdFlags)
	}
	if s.output == nil {
		s.output = os.Stdout
	}
	if s.config.Trace != "" {
		outputFile := s.config.Trace
		if outputFile == "-" {
			outputFile = ""
		}
		if err := tracing.Init("rotor", Version, outputFile); err != nil {
			return fmt.Errorf("failed to initialise tracing: %w", err)
		}
	}
	var err error
	if s.control == nil {
		if s.control, err = newLocalControl(); err != nil {
			return err
		}
	}
	if s.eventService == nil {
		if s.eventService, err = s.newEventService(runID); err != nil {
			return err
		}
	}
	if s.exits == nil {
		if s.config.Exits != "" {
			if s.exits, err = exitfs.New(s.config.Exits); err != nil {
				return err
			}
		} else {
			s.exits = exitmemory.New()
		}
	}
	return nil
}

func (s *Service) newEventService(runID string) (*event.Service, error) {
	if journal := s.config.Journal; journal != "" {
		return event.New(messaging.VendorFs, event.WithRunID(runID),
			event.WithNewFsQueueConfig(func(name string) fs.QueueConfig {
				config := fs.DefaultConfig()
				config.BasePath = url.Join(journal, name)
				return config
			}))
	}
	return event.New(messaging.VendorMemory, event.WithRunID(runID),
		event.WithNewMemoryQueueConfig(func(string) memory.Config {
			config := memory.DefaultConfig()
			if s.config.QueueBuffer > 0 {
				config.QueueBuffer = s.config.QueueBuffer
			}
			return config
		}))
}

// New creates a scheduler service
func New(options ...Option) (*Service, error) {
	ret := &Service{}
	for _, option := range options {
		option(ret)
	}
	if ret.initErr != nil {
		return nil, ret.initErr
	}
	runID := idgen.NewRunID()
	if err := ret.ensureBaseSetup(runID); err != nil {
		return nil, err
	}

	publisher, err := event.PublisherOf[model.Event](ret.eventService)
	if err != nil {
		return nil, err
	}
	handler := ret.eventHandler
	if handler == nil {
		handler = func(*event.Event[model.Event]) {}
	}
	if err = event.SetListenerOf[model.Event](ret.eventService, handler); err != nil {
		return nil, err
	}

	quantum, _ := ret.config.QuantumDuration()
	tracker := progress.New(runID)
	sched, err := scheduler.New(
		scheduler.WithControl(ret.control),
		scheduler.WithQuantum(quantum),
		scheduler.WithQueueBuffer(ret.config.QueueBuffer),
		scheduler.WithLogger(ret.logger),
		scheduler.WithOutput(ret.output),
		scheduler.WithPublisher(publisher),
		scheduler.WithExitStore(ret.exits),
		scheduler.WithProgress(tracker),
	)
	if err != nil {
		return nil, err
	}
	ret.runtime = &Runtime{
		runID:     runID,
		scheduler: sched,
		control:   ret.control,
		events:    ret.eventService,
		exits:     ret.exits,
		progress:  tracker,
		logger:    ret.logger,
	}
	return ret, nil
}
