package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/viant/rotor/service/control"
)

const usage = `commands:
  p          list tasks
  k <id>     kill task
  e <path>   spawn task
  h <id>     raise priority
  l <id>     lower priority
  q          quit controller
`

// Shell reads controller commands line by line and forwards them as requests
type Shell struct {
	client *control.Client
	in     io.Reader
	out    io.Writer
	prompt string
}

// Option configures Shell
type Option func(s *Shell)

// WithPrompt sets the prompt printed before each command
func WithPrompt(prompt string) Option {
	return func(s *Shell) {
		s.prompt = prompt
	}
}

// New creates a shell reading commands from in and echoing results to out
func New(client *control.Client, in io.Reader, out io.Writer, options ...Option) *Shell {
	ret := &Shell{client: client, in: in, out: out, prompt: "rotor> "}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Run processes commands until q, end of input, ctx cancellation or a
// control channel failure, which is returned.
func (s *Shell) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fmt.Fprint(s.out, s.prompt)
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		command, err := Parse(scanner.Bytes())
		if err != nil {
			fmt.Fprintf(s.out, "%v\n", err)
			continue
		}
		switch {
		case command == nil:
			continue
		case command.Quit:
			return nil
		case command.Help:
			fmt.Fprint(s.out, usage)
			continue
		}
		code, err := s.client.Do(command.Request)
		if err != nil {
			return err
		}
		if code != control.CodeOK {
			fmt.Fprintf(s.out, "%v: %v\n", command.Request, code)
		}
	}
}
