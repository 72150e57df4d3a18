package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dkeye/Podcast/internal/core"
	"github.com/dkeye/Podcast/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const inviteKeyLen = 20

var _ core.SessionStore = (*Store)(nil)

const sessionColumns = "id, room_id, host_id, title, status, created_at"

// CreateSession inserts an active session under a fresh invite key.
func (s *Store) CreateSession(ctx context.Context, hostID domain.UserID, title string) (*domain.Session, error) {
	roomID := newInviteKey()
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO sessions (room_id, host_id, title, status, created_at) VALUES (?, ?, ?, ?, ?)",
		string(roomID), string(hostID), title, string(domain.SessionActive), time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read session id: %w", err)
	}
	log.Info().Str("module", "store").Int64("session", id).Str("room", string(roomID)).Msg("created session")
	return s.sessionByID(ctx, id)
}

// EndSession marks the session behind roomID as ended.
func (s *Store) EndSession(ctx context.Context, roomID domain.RoomID) error {
	res, err := s.db.ExecContext(ctx, "UPDATE sessions SET status = ? WHERE room_id = ?", string(domain.SessionEnded), string(roomID))
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrRoomNotFound
	}
	return nil
}

func (s *Store) FindSessionByRoomID(ctx context.Context, roomID domain.RoomID) (*domain.Session, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+sessionColumns+" FROM sessions WHERE room_id = ?", string(roomID))
	return scanSession(row)
}

// FindActiveSession is the REST lookup: ended sessions are reported as missing.
func (s *Store) FindActiveSession(ctx context.Context, roomID domain.RoomID) (*domain.Session, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+sessionColumns+" FROM sessions WHERE room_id = ? AND status = ?",
		string(roomID), string(domain.SessionActive),
	)
	return scanSession(row)
}

func (s *Store) sessionByID(ctx context.Context, id int64) (*domain.Session, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+sessionColumns+" FROM sessions WHERE id = ?", id)
	return scanSession(row)
}

func scanSession(row *sql.Row) (*domain.Session, error) {
	var (
		sess                  domain.Session
		roomID, hostID, state string
	)
	err := row.Scan(&sess.ID, &roomID, &hostID, &sess.Title, &state, &sess.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	sess.RoomID = domain.RoomID(roomID)
	sess.HostID = domain.UserID(hostID)
	sess.Status = domain.SessionStatus(state)
	return &sess, nil
}

func newInviteKey() domain.RoomID {
	return domain.RoomID(strings.ReplaceAll(uuid.NewString(), "-", "")[:inviteKeyLen])
}
