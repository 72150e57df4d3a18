// Package domain contains entity without logic, just meta-data
package domain

import "errors"

const (
	MaxUserIDLen   = 64
	MaxUsernameLen = 64

	GuestName   = "Guest"
	guestPrefix = "guest-"
)

var (
	ErrUserIDEmpty     = errors.New("user id empty")
	ErrUserIDTooLong   = errors.New("user id too long")
	ErrUsernameTooLong = errors.New("username too long")
)

type UserID string

// User is the identity behind a signaling connection: an authenticated
// account or a generated guest.
type User struct {
	ID    UserID `json:"id"`
	Name  string `json:"name"`
	Guest bool   `json:"guest,omitempty"`
}

// NewUser builds an authenticated identity. An empty name falls back to the id.
func NewUser(id, name string) (*User, error) {
	if len(id) == 0 {
		return nil, ErrUserIDEmpty
	}
	if len(id) > MaxUserIDLen {
		return nil, ErrUserIDTooLong
	}
	if name == "" {
		name = id
	}
	if len(name) > MaxUsernameLen {
		return nil, ErrUsernameTooLong
	}
	return &User{ID: UserID(id), Name: name}, nil
}

// NewGuest is a tiny helper to avoid ad-hoc struct literals in adapters.
func NewGuest(seed string) *User {
	return &User{ID: UserID(guestPrefix + seed), Name: GuestName, Guest: true}
}
