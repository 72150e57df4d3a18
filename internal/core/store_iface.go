package core

import (
	"context"

	"github.com/dkeye/Podcast/internal/domain"
)

//go:generate mockgen -source=store_iface.go -destination=mocks/mock_store.go -package=mocks

// SessionStore is the durable session store as seen by the signaling core.
// FindSessionByRoomID returns ErrRoomNotFound when no record exists.
type SessionStore interface {
	FindSessionByRoomID(ctx context.Context, roomID domain.RoomID) (*domain.Session, error)
	RecordParticipantJoin(ctx context.Context, sessionID int64, userID domain.UserID) error
	RecordParticipantLeave(ctx context.Context, userID domain.UserID) error
}

// RoomInfo is a read-only presence view for APIs.
type RoomInfo struct {
	RoomID      domain.RoomID `json:"roomId"`
	MemberCount int           `json:"participantCount"`
}
