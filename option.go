package rotor

import (
	"io"
	"log"

	"github.com/viant/rotor/model"
	"github.com/viant/rotor/service/dao"
	"github.com/viant/rotor/service/event"
	"github.com/viant/rotor/service/proc"
	"github.com/viant/rotor/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option configures Service
type Option func(s *Service)

// WithConfig sets the configuration, DefaultConfig() otherwise
func WithConfig(config *Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithControl sets process control, the local OS implementation otherwise
func WithControl(control proc.Control) Option {
	return func(s *Service) {
		s.control = control
	}
}

// WithLogger sets the diagnostic logger
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithOutput sets where task listings are printed
func WithOutput(w io.Writer) Option {
	return func(s *Service) {
		s.output = w
	}
}

// WithEventService sets the lifecycle event service
func WithEventService(service *event.Service) Option {
	return func(s *Service) {
		s.eventService = service
	}
}

// WithEventHandler receives every lifecycle event
func WithEventHandler(handler func(*event.Event[model.Event])) Option {
	return func(s *Service) {
		s.eventHandler = handler
	}
}

// WithExitStore sets where exit records are kept
func WithExitStore(store dao.Service[int, model.Exit]) Option {
	return func(s *Service) {
		s.exits = store
	}
}

// WithTracing configures OpenTelemetry tracing with the stdout exporter writing to
// outputFile, or os.Stdout when empty. The first successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		if err := tracing.Init(serviceName, serviceVersion, outputFile); err != nil {
			s.initErr = err
		}
	}
}

// WithTracingExporter configures OpenTelemetry tracing with a custom exporter.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		if err := tracing.InitWithExporter(serviceName, serviceVersion, exporter); err != nil {
			s.initErr = err
		}
	}
}
