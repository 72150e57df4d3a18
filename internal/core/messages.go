package core

import (
	"encoding/json"

	"github.com/dkeye/Podcast/internal/domain"
)

// Wire message types.
const (
	TypeJoinRoom             = "join-room"
	TypeLeaveRoom            = "leave-room"
	TypeLeft                 = "left"
	TypeExistingParticipants = "existing-participants"
	TypeUserConnected        = "user-connected"
	TypeUserDisconnected     = "user-disconnected"
	TypeParticipantCount     = "participant-count"
	TypeError                = "error"
	TypePing                 = "ping"
	TypePong                 = "pong"
	TypeWhoAmI               = "whoami"
)

type SignalKind string

const (
	KindOffer        SignalKind = "offer"
	KindAnswer       SignalKind = "answer"
	KindICECandidate SignalKind = "ice-candidate"
)

func (k SignalKind) Valid() bool {
	switch k {
	case KindOffer, KindAnswer, KindICECandidate:
		return true
	}
	return false
}

// SignalEnvelope is the wire shape of offer/answer/ice-candidate in both
// directions. Only the field matching Type carries the payload.
type SignalEnvelope struct {
	Type      SignalKind      `json:"type"`
	Offer     json.RawMessage `json:"offer,omitempty"`
	Answer    json.RawMessage `json:"answer,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
	RoomID    domain.RoomID   `json:"roomId,omitempty"`
	TargetID  ConnID          `json:"targetId,omitempty"`
	SenderID  ConnID          `json:"senderId,omitempty"`
}

func (e *SignalEnvelope) Payload() json.RawMessage {
	switch e.Type {
	case KindOffer:
		return e.Offer
	case KindAnswer:
		return e.Answer
	case KindICECandidate:
		return e.Candidate
	}
	return nil
}

func (e *SignalEnvelope) SetPayload(p json.RawMessage) {
	switch e.Type {
	case KindOffer:
		e.Offer = p
	case KindAnswer:
		e.Answer = p
	case KindICECandidate:
		e.Candidate = p
	}
}

type JoinRoomMsg struct {
	Type   string        `json:"type"`
	RoomID domain.RoomID `json:"roomId"`
}

type ExistingParticipantsMsg struct {
	Type         string   `json:"type"`
	Participants []ConnID `json:"participants"`
}

// PeerMsg announces a peer arriving or leaving.
type PeerMsg struct {
	Type         string `json:"type"`
	ConnectionID ConnID `json:"connectionId"`
}

type ParticipantCountMsg struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type ErrorMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type WhoAmIMsg struct {
	Type         string        `json:"type"`
	ConnectionID ConnID        `json:"connectionId"`
	User         *domain.User  `json:"user"`
	RoomID       domain.RoomID `json:"roomId,omitempty"`
}

// Encode marshals a wire message into a Frame.
func Encode(v any) (Frame, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return Frame(b), nil
}
