//go:build !linux && !darwin

package rotor

import (
	"fmt"
	"runtime"

	"github.com/viant/rotor/service/proc"
)

func newLocalControl() (proc.Control, error) {
	return nil, fmt.Errorf("local process control is not supported on %v", runtime.GOOS)
}
