//go:build linux || darwin

package local

import (
	"fmt"
	"os"
	"os/exec"

	"golang.org/x/sys/unix"
)

// TrampolineEnv marks a process started by Control.Spawn
const TrampolineEnv = "ROTOR_TRAMPOLINE"

// exitExecFailed is the exit status of a child whose image replacement failed.
const exitExecFailed = 127

// IsTrampoline reports whether the current process was started by Spawn and
// must call Trampoline before doing anything else.
func IsTrampoline() bool {
	return os.Getenv(TrampolineEnv) == "1" && len(os.Args) > 1
}

// Trampoline stops the current process and, once resumed by the scheduler,
// replaces its image with os.Args[1]. It never returns: a failed image
// replacement terminates only this child.
func Trampoline() {
	_ = os.Unsetenv(TrampolineEnv)
	executable := os.Args[1]
	path, lookErr := exec.LookPath(executable)
	if err := unix.Kill(unix.Getpid(), unix.SIGSTOP); err != nil {
		fmt.Fprintf(os.Stderr, "rotor: failed to stop before exec: %v\n", err)
		os.Exit(exitExecFailed)
	}
	if lookErr != nil {
		fmt.Fprintf(os.Stderr, "rotor: exec %v: %v\n", executable, lookErr)
		os.Exit(exitExecFailed)
	}
	err := unix.Exec(path, os.Args[1:], os.Environ())
	fmt.Fprintf(os.Stderr, "rotor: exec %v: %v\n", executable, err)
	os.Exit(exitExecFailed)
}
