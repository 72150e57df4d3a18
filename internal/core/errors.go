package core

import "errors"

var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrSessionEnded        = errors.New("session ended")
	ErrAdmissionFailed     = errors.New("admission failed")
	ErrDuplicateConnection = errors.New("duplicate connection")
	ErrAuditWriteFailed    = errors.New("audit write failed")
	ErrTargetUnreachable   = errors.New("target unreachable")
	ErrBackpressure        = errors.New("backpressure")
	ErrConnectionClosed    = errors.New("connection closed")
	ErrStopped             = errors.New("orchestrator stopped")
)
