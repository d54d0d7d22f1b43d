package proc

import "errors"

var (
	// ErrExited is returned when signalling a process that has already been
	// reaped but whose exit change has not been handled yet.
	ErrExited = errors.New("proc: process already exited")

	// ErrUnknownHandle is returned for handles that were never spawned by the control.
	ErrUnknownHandle = errors.New("proc: unknown handle")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("proc: control closed")
)
