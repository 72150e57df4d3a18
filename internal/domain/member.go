package domain

import "time"

// Participant is an audit row: one identity's stay in a session.
// LeftAt is nil while the stay is open.
type Participant struct {
	SessionID int64      `json:"sessionId"`
	UserID    UserID     `json:"userId"`
	JoinedAt  time.Time  `json:"joinedAt"`
	LeftAt    *time.Time `json:"leftAt,omitempty"`
}
