package core

import (
	"encoding/json"

	"github.com/dkeye/Podcast/internal/domain"
)

// Event is the closed set of inputs the orchestrator loop accepts.
type Event interface {
	isEvent()
}

// Connect registers a freshly upgraded transport.
type Connect struct {
	ID   ConnID
	User *domain.User
	Conn SignalConnection
}

// Disconnect is posted by the transport when it closes.
type Disconnect struct {
	ID ConnID
}

type JoinRequest struct {
	ID     ConnID
	RoomID domain.RoomID
}

type LeaveRequest struct {
	ID ConnID
}

type WhoAmIRequest struct {
	ID ConnID
}

// SignalRequest is a targeted offer/answer/ice-candidate from ID to TargetID.
type SignalRequest struct {
	ID       ConnID
	Kind     SignalKind
	Payload  json.RawMessage
	RoomID   domain.RoomID
	TargetID ConnID
}

// AdmissionResult re-enters the loop when an admission lookup completes.
// Gen must match the connection's pending join or the result is stale.
type AdmissionResult struct {
	ID      ConnID
	RoomID  domain.RoomID
	Gen     uint64
	Session *domain.Session
	Err     error
}

// Query runs Fn on the loop goroutine.
type Query struct {
	Fn func()
}

func (Connect) isEvent()         {}
func (Disconnect) isEvent()      {}
func (JoinRequest) isEvent()     {}
func (LeaveRequest) isEvent()    {}
func (WhoAmIRequest) isEvent()   {}
func (SignalRequest) isEvent()   {}
func (AdmissionResult) isEvent() {}
func (Query) isEvent()           {}
