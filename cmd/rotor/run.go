//go:build linux || darwin

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/viant/afs/url"
	"github.com/viant/rotor"
	"github.com/viant/rotor/service/control"
	"github.com/viant/rotor/service/control/shell"
	"github.com/viant/rotor/service/scheduler"
)

// Exit statuses
const (
	statusOK          = 0
	statusFailed      = 1
	statusUsage       = 2
	statusInterrupted = 130
)

// run boots the scheduler with the programs named in args, serves the
// controller reading commands from stdin, and returns the process exit status.
func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer, options ...rotor.Option) int {
	flags := flag.NewFlagSet("rotor", flag.ContinueOnError)
	configURL := flags.String("c", "", "config URL (yaml or toml)")
	quantum := flags.String("q", "", "scheduling quantum, e.g. 2s")
	journal := flags.String("journal", "", "lifecycle event journal base URL")
	exits := flags.String("exits", "", "exit record base URL")
	trace := flags.String("trace", "", "span output file, - for stdout")
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "usage: rotor [flags] program...\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return statusUsage
	}

	config := rotor.DefaultConfig()
	if *configURL != "" {
		loaded, err := rotor.LoadConfig(ctx, url.Normalize(*configURL, "file"))
		if err != nil {
			log.Printf("%v", err)
			return statusFailed
		}
		config = loaded
	}
	if *quantum != "" {
		config.Quantum = *quantum
	}
	if *journal != "" {
		config.Journal = *journal
	}
	if *exits != "" {
		config.Exits = *exits
	}
	if *trace != "" {
		config.Trace = *trace
	}

	options = append([]rotor.Option{rotor.WithConfig(config), rotor.WithOutput(stdout)}, options...)
	srv, err := rotor.New(options...)
	if err != nil {
		log.Printf("%v", err)
		return statusFailed
	}
	runtime := srv.Runtime()
	defer func() {
		if err := runtime.Shutdown(context.Background()); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	if err = runtime.Boot(ctx, append(config.Tasks, flags.Args()...)...); err != nil {
		log.Printf("%v", err)
		return statusFailed
	}
	if len(runtime.Tasks()) == 0 {
		fmt.Fprintln(stdout, "No tasks. Exiting...")
		return statusFailed
	}

	requestReader, requestWriter, err := os.Pipe()
	if err != nil {
		log.Printf("failed to create request channel: %v", err)
		return statusFailed
	}
	responseReader, responseWriter, err := os.Pipe()
	if err != nil {
		log.Printf("failed to create response channel: %v", err)
		return statusFailed
	}
	go func() {
		_ = runtime.ServeControl(ctx, requestReader, responseWriter)
		_ = responseWriter.Close()
	}()
	go func() {
		client := control.NewClient(requestWriter, responseReader)
		if err := shell.New(client, stdin, stdout).Run(ctx); err != nil {
			log.Printf("controller: %v", err)
		}
		_ = requestWriter.Close()
	}()

	err = runtime.Run(ctx)
	summarize(ctx, runtime, stdout)
	switch {
	case err == nil:
		return statusOK
	case errors.Is(err, scheduler.ErrNoTasks):
		fmt.Fprintln(stdout, "No tasks. Exiting...")
		return statusFailed
	case errors.Is(err, context.Canceled):
		log.Printf("interrupted")
		return statusInterrupted
	default:
		log.Printf("%v", err)
		return statusFailed
	}
}

func summarize(ctx context.Context, runtime *rotor.Runtime, stdout io.Writer) {
	exits, err := runtime.Exits(context.WithoutCancel(ctx))
	if err != nil {
		log.Printf("failed to list exits: %v", err)
		return
	}
	for _, exit := range exits {
		fmt.Fprintf(stdout, "%d %s %s code=%d signal=%d\n", exit.TaskID, exit.Name, exit.Outcome, exit.ExitCode, exit.Signal)
	}
	progress := runtime.Progress()
	fmt.Fprintf(stdout, "switches=%d requests=%d\n", progress.Switches, progress.Requests)
}
