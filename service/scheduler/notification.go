package scheduler

import (
	"github.com/viant/rotor/service/proc"
)

type notificationKind int

const (
	quantumExpired notificationKind = iota + 1
	childChanged
	failure
)

// notification is a single entry of the scheduler queue
type notification struct {
	Kind       notificationKind
	Generation uint64
	Change     proc.Change
	Err        error
}
