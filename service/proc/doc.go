// Package proc defines the process-control capability the scheduler depends
// on: spawn a stopped process, pause, resume or terminate it, and observe
// state changes of every spawned process.
//
// Two implementations are provided: local (real operating system processes)
// and memory (a deterministic in-process fake used in tests).
package proc
