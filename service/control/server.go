package control

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/viant/rotor/tracing"
)

// Dispatcher executes a decoded request and returns its result code
type Dispatcher interface {
	Dispatch(ctx context.Context, request *Request) Code
}

// DispatcherFunc adapts a function to Dispatcher
type DispatcherFunc func(ctx context.Context, request *Request) Code

func (f DispatcherFunc) Dispatch(ctx context.Context, request *Request) Code {
	return f(ctx, request)
}

// Server services control requests strictly one at a time
type Server struct {
	dispatcher Dispatcher
	logger     *log.Logger
}

// ServerOption configures Server
type ServerOption func(s *Server)

// WithServerLogger sets server logger
func WithServerLogger(logger *log.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a server dispatching to dispatcher
func NewServer(dispatcher Dispatcher, options ...ServerOption) *Server {
	ret := &Server{dispatcher: dispatcher}
	for _, option := range options {
		option(ret)
	}
	if ret.logger == nil {
		ret.logger = log.New(os.Stderr, "rotor: ", log.LstdFlags)
	}
	return ret
}

// Serve reads requests from in and writes exactly one response per request
// to out. It returns nil when in is closed at a record boundary, ctx error
// when cancelled, otherwise the I/O error that ended servicing.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	buffer := make([]byte, RequestSize)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := io.ReadFull(in, buffer); err != nil {
			switch {
			case errors.Is(err, io.EOF):
				return nil
			case errors.Is(err, io.ErrUnexpectedEOF):
				return fmt.Errorf("failed to read request: %w", ErrShortRecord)
			}
			return fmt.Errorf("failed to read request: %w", err)
		}
		code := s.handle(ctx, buffer)
		if _, err := out.Write(encodeCode(code)); err != nil {
			return fmt.Errorf("failed to write response: %w", err)
		}
	}
}

func (s *Server) handle(ctx context.Context, data []byte) Code {
	request := &Request{}
	if err := request.UnmarshalBinary(data); err != nil {
		s.logger.Printf("rejected request: %v", err)
		return CodeInvalid
	}
	ctx, span := tracing.StartSpan(ctx, "control."+request.Kind.String(), tracing.KindServer)
	code := s.dispatcher.Dispatch(ctx, request)
	span.WithAttributes(map[string]string{"request": request.String(), "code": code.String()})
	var err error
	if code < 0 {
		err = fmt.Errorf("%v: %v", request, code)
	}
	tracing.EndSpan(span, err)
	return code
}
