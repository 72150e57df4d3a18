package orch

import (
	"errors"
	"fmt"

	"github.com/dkeye/Podcast/internal/app"
	"github.com/dkeye/Podcast/internal/core"
	"github.com/rs/zerolog/log"
)

func (o *Orchestrator) onSignal(ev core.SignalRequest) {
	if err := o.relay(ev); err != nil {
		log.Debug().
			Err(err).
			Str("module", "orch.router").
			Str("from", string(ev.ID)).
			Str("to", string(ev.TargetID)).
			Str("kind", string(ev.Kind)).
			Msg("signal dropped")
	}
}

// relay forwards a signaling payload to exactly one target in the
// sender's room. The payload is never inspected.
func (o *Orchestrator) relay(ev core.SignalRequest) error {
	if !ev.Kind.Valid() {
		return fmt.Errorf("unknown signal kind %q", ev.Kind)
	}
	sender, ok := o.Registry.Lookup(ev.ID)
	if !ok || sender.State != core.StateJoined {
		return fmt.Errorf("sender not joined: %w", core.ErrTargetUnreachable)
	}
	target, ok := o.Registry.Lookup(ev.TargetID)
	if !ok || target.State != core.StateJoined || target.RoomID != sender.RoomID {
		return core.ErrTargetUnreachable
	}

	env := core.SignalEnvelope{Type: ev.Kind, SenderID: ev.ID}
	env.SetPayload(ev.Payload)
	return o.send(target.ID, env, app.DeliverySignal)
}

// send encodes v and queues it on id's transport, applying the backpressure
// policy when the queue is full.
func (o *Orchestrator) send(id core.ConnID, v any, d app.Delivery) error {
	conn, ok := o.Registry.Conn(id)
	if !ok {
		return core.ErrTargetUnreachable
	}
	frame, err := core.Encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("encode message")
		return err
	}
	err = conn.TrySend(frame)
	if err == nil {
		return nil
	}
	if errors.Is(err, core.ErrBackpressure) {
		switch o.Policy.OnBackPressure(id, d) {
		case app.KickMember:
			log.Warn().Str("module", "orch").Str("conn", string(id)).Msg("slow member kicked")
			conn.Close()
		case app.DropMessage, app.NoAction:
		}
	}
	return err
}

func (o *Orchestrator) sendError(id core.ConnID, msg string) {
	o.send(id, core.ErrorMsg{Type: core.TypeError, Message: msg}, app.DeliveryPresence)
}

func (o *Orchestrator) sendWhoAmI(id core.ConnID) {
	entry, ok := o.Registry.Lookup(id)
	if !ok {
		return
	}
	o.send(id, core.WhoAmIMsg{
		Type:         core.TypeWhoAmI,
		ConnectionID: id,
		User:         entry.User,
		RoomID:       entry.RoomID,
	}, app.DeliveryPresence)
}
