package control

import "errors"

var (
	// ErrPathTooLong is returned when a path does not fit MaxPathLen.
	ErrPathTooLong = errors.New("control: path too long")

	// ErrTaskIDRange is returned when a task id does not fit the 32 bit wire field.
	ErrTaskIDRange = errors.New("control: task id out of range")

	// ErrShortRecord is returned when fewer than RequestSize bytes are available.
	ErrShortRecord = errors.New("control: short record")
)
