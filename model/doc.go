// Package model contains the in-memory representation of scheduled tasks and
// the circular registry that orders them.
//
// The registry is a doubly-linked ring: traversal from any task returns to
// that task after exactly Len() steps. It is not safe for concurrent use; the
// scheduler mutates it only while holding its masking window.
package model
