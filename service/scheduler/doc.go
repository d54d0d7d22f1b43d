// Package scheduler rotates a set of stopped worker processes through fixed
// time quanta.
//
// Timer expiries and process state changes are delivered as notifications
// into a single queue. The event loop drains that queue while holding the
// mask token; control requests hold the same token for the duration of their
// dispatch, so the registry only ever has one writer.
package scheduler
