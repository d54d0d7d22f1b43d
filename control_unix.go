//go:build linux || darwin

package rotor

import (
	"github.com/viant/rotor/service/proc"
	"github.com/viant/rotor/service/proc/local"
)

func newLocalControl() (proc.Control, error) {
	return local.New()
}
