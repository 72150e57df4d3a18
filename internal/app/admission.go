package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkeye/Podcast/internal/core"
	"github.com/dkeye/Podcast/internal/domain"
	"github.com/rs/zerolog/log"
)

// Gate admits identities into rooms backed by a durable session.
type Gate struct {
	Store core.SessionStore
	// RequireActive rejects rooms whose session has ended.
	RequireActive bool
}

func (g *Gate) Admit(ctx context.Context, roomID domain.RoomID, user *domain.User) (*domain.Session, error) {
	if user == nil {
		return nil, fmt.Errorf("%w: missing identity", core.ErrAdmissionFailed)
	}
	if roomID == "" {
		return nil, core.ErrRoomNotFound
	}
	sess, err := g.Store.FindSessionByRoomID(ctx, roomID)
	if err != nil {
		if errors.Is(err, core.ErrRoomNotFound) {
			return nil, core.ErrRoomNotFound
		}
		return nil, fmt.Errorf("%w: lookup %s: %w", core.ErrAdmissionFailed, roomID, err)
	}
	if sess == nil {
		return nil, core.ErrRoomNotFound
	}
	if g.RequireActive && !sess.Active() {
		return nil, core.ErrSessionEnded
	}
	log.Debug().Str("module", "app.admission").Str("room", string(roomID)).Str("user", string(user.ID)).Int64("session", sess.ID).Msg("admitted")
	return sess, nil
}

// RejectionMessage is what a client sees for a failed admission.
func RejectionMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrRoomNotFound):
		return "Session not found"
	case errors.Is(err, core.ErrSessionEnded):
		return "Session has ended"
	default:
		return "Failed to join room"
	}
}
