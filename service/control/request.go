package control

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Kind identifies the request type
type Kind uint32

const (
	KindList Kind = iota + 1
	KindKill
	KindSpawn
	KindRaisePriority
	KindLowerPriority
)

func (k Kind) String() string {
	switch k {
	case KindList:
		return "LIST"
	case KindKill:
		return "KILL"
	case KindSpawn:
		return "SPAWN"
	case KindRaisePriority:
		return "RAISE_PRIORITY"
	case KindLowerPriority:
		return "LOWER_PRIORITY"
	}
	return fmt.Sprintf("Kind(%d)", uint32(k))
}

// Code is the response result, negative values mirror errno
type Code int32

const (
	CodeOK             Code = 0
	CodeNotFound       Code = -3
	CodeInvalid        Code = -22
	CodeNotImplemented Code = -38
)

func (c Code) String() string {
	switch c {
	case CodeOK:
		return "ok"
	case CodeNotFound:
		return "not found"
	case CodeInvalid:
		return "invalid argument"
	case CodeNotImplemented:
		return "not implemented"
	}
	return fmt.Sprintf("code %d", int32(c))
}

const (
	// MaxPathLen bounds the SPAWN path
	MaxPathLen = 256
	// RequestSize is the encoded size of every request
	RequestSize = 4 + 4 + 2 + MaxPathLen
	// ResponseSize is the encoded size of every response
	ResponseSize = 4
)

// Request is a single control plane request
type Request struct {
	Kind   Kind
	TaskID int
	Path   string
}

// List creates a LIST request
func List() *Request { return &Request{Kind: KindList} }

// Kill creates a KILL request
func Kill(taskID int) *Request { return &Request{Kind: KindKill, TaskID: taskID} }

// Spawn creates a SPAWN request
func Spawn(path string) *Request { return &Request{Kind: KindSpawn, Path: path} }

// Raise creates a RAISE_PRIORITY request
func Raise(taskID int) *Request { return &Request{Kind: KindRaisePriority, TaskID: taskID} }

// Lower creates a LOWER_PRIORITY request
func Lower(taskID int) *Request { return &Request{Kind: KindLowerPriority, TaskID: taskID} }

// MarshalBinary encodes the request into a RequestSize record
func (r *Request) MarshalBinary() ([]byte, error) {
	if len(r.Path) > MaxPathLen {
		return nil, fmt.Errorf("%w: %d > %d", ErrPathTooLong, len(r.Path), MaxPathLen)
	}
	if r.TaskID < math.MinInt32 || r.TaskID > math.MaxInt32 {
		return nil, fmt.Errorf("%w: %d", ErrTaskIDRange, r.TaskID)
	}
	data := make([]byte, RequestSize)
	binary.BigEndian.PutUint32(data[0:4], uint32(r.Kind))
	binary.BigEndian.PutUint32(data[4:8], uint32(int32(r.TaskID)))
	binary.BigEndian.PutUint16(data[8:10], uint16(len(r.Path)))
	copy(data[10:], r.Path)
	return data, nil
}

// UnmarshalBinary decodes a RequestSize record
func (r *Request) UnmarshalBinary(data []byte) error {
	if len(data) < RequestSize {
		return fmt.Errorf("%w: %d < %d bytes", ErrShortRecord, len(data), RequestSize)
	}
	pathLen := int(binary.BigEndian.Uint16(data[8:10]))
	if pathLen > MaxPathLen {
		return fmt.Errorf("%w: %d > %d", ErrPathTooLong, pathLen, MaxPathLen)
	}
	r.Kind = Kind(binary.BigEndian.Uint32(data[0:4]))
	r.TaskID = int(int32(binary.BigEndian.Uint32(data[4:8])))
	r.Path = string(data[10 : 10+pathLen])
	return nil
}

func (r *Request) String() string {
	switch r.Kind {
	case KindList:
		return r.Kind.String()
	case KindSpawn:
		return fmt.Sprintf("%v %q", r.Kind, r.Path)
	}
	return fmt.Sprintf("%v %d", r.Kind, r.TaskID)
}

func encodeCode(code Code) []byte {
	data := make([]byte, ResponseSize)
	binary.BigEndian.PutUint32(data, uint32(int32(code)))
	return data
}

func decodeCode(data []byte) (Code, error) {
	if len(data) < ResponseSize {
		return 0, fmt.Errorf("%w: %d < %d bytes", ErrShortRecord, len(data), ResponseSize)
	}
	return Code(int32(binary.BigEndian.Uint32(data))), nil
}
