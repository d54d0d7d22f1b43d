// Package clock lets tests pin the wall clock used for event and exit stamps.
package clock

import "time"

// NowFunc returns current time. Override in tests for determinism.
var NowFunc = time.Now

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }

// Freeze pins Now to at and returns a function restoring the previous clock.
func Freeze(at time.Time) (restore func()) {
	prev := NowFunc
	NowFunc = func() time.Time { return at }
	return func() { NowFunc = prev }
}
