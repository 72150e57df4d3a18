package app

import "github.com/dkeye/Podcast/internal/core"

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	DropMessage
	KickMember
)

// Delivery tells the policy what kind of message could not be queued.
type Delivery int

const (
	DeliveryPresence Delivery = iota
	DeliverySignal
)

type Policy interface {
	OnBackPressure(id core.ConnID, d Delivery) BackpressureAction
}

// SimplePolicy kicks members too slow to take presence updates and drops
// signaling, which renegotiation supersedes anyway.
type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(_ core.ConnID, d Delivery) BackpressureAction {
	if d == DeliveryPresence {
		return KickMember
	}
	return DropMessage
}
