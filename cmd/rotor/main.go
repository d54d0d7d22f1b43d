//go:build linux || darwin

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/viant/rotor/service/proc/local"
)

func main() {
	if local.IsTrampoline() {
		local.Trampoline()
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	status := run(ctx, os.Args[1:], os.Stdin, os.Stdout)
	cancel()
	os.Exit(status)
}
