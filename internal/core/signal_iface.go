package core

import "fmt"

// Frame is a raw encoded message.
type Frame []byte

// ConnID identifies a live signaling connection. Server-assigned, opaque.
type ConnID string

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// ConnState is the room-membership lifecycle of a connection.
type ConnState int

const (
	StateUnjoined ConnState = iota
	StateJoining
	StateJoined
	StateLeft
)

func (s ConnState) String() string {
	switch s {
	case StateUnjoined:
		return "unjoined"
	case StateJoining:
		return "joining"
	case StateJoined:
		return "joined"
	case StateLeft:
		return "left"
	default:
		return fmt.Sprintf("ConnState(%d)", int(s))
	}
}
