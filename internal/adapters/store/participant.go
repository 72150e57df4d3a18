package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dkeye/Podcast/internal/domain"
)

func (s *Store) RecordParticipantJoin(ctx context.Context, sessionID int64, userID domain.UserID) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO participants (session_id, user_id, joined_at) VALUES (?, ?, ?)",
		sessionID, string(userID), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record participant join: %w", err)
	}
	return nil
}

// RecordParticipantLeave closes every open stay of userID.
func (s *Store) RecordParticipantLeave(ctx context.Context, userID domain.UserID) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE participants SET left_at = ? WHERE user_id = ? AND left_at IS NULL",
		time.Now().UTC(), string(userID),
	)
	if err != nil {
		return fmt.Errorf("failed to record participant leave: %w", err)
	}
	return nil
}

// Participants lists the audit rows of a session, oldest first.
func (s *Store) Participants(ctx context.Context, sessionID int64) ([]domain.Participant, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT session_id, user_id, joined_at, left_at FROM participants WHERE session_id = ? ORDER BY id",
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var out []domain.Participant
	for rows.Next() {
		var (
			p      domain.Participant
			userID string
			leftAt sql.NullTime
		)
		if err := rows.Scan(&p.SessionID, &userID, &p.JoinedAt, &leftAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		p.UserID = domain.UserID(userID)
		if leftAt.Valid {
			t := leftAt.Time
			p.LeftAt = &t
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
