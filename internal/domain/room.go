package domain

import "time"

// RoomID is the invite key of a podcast session.
type RoomID string

type SessionStatus string

const (
	SessionActive SessionStatus = "active"
	SessionEnded  SessionStatus = "ended"
)

// Session is the durable record a room is admitted against.
type Session struct {
	ID        int64         `json:"id"`
	RoomID    RoomID        `json:"roomId"`
	HostID    UserID        `json:"hostId"`
	Title     string        `json:"title"`
	Status    SessionStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
}

func (s *Session) Active() bool { return s.Status == SessionActive }
