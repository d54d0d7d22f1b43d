// Package control implements the control plane of the scheduler: a fixed
// size binary request record, a one code response, a Server that services
// one request at a time over a pair of byte streams and a Client for the
// controller side.
//
// Request layout (big endian):
//
//	kind    uint32
//	task    int32
//	pathLen uint16
//	path    [MaxPathLen]byte, zero padded
//
// Response layout: a single int32 code, zero on success.
package control
