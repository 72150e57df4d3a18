package orch

import (
	"context"

	"github.com/dkeye/Podcast/internal/app"
	"github.com/dkeye/Podcast/internal/core"
	"github.com/dkeye/Podcast/internal/domain"
	"github.com/rs/zerolog/log"
)

func (o *Orchestrator) onConnect(ev core.Connect) {
	if ev.User == nil {
		ev.User = domain.NewGuest(string(ev.ID))
	}
	if err := o.Registry.Register(ev.ID, ev.User, ev.Conn); err != nil {
		log.Error().Err(err).Str("module", "orch").Str("conn", string(ev.ID)).Msg("register rejected")
		ev.Conn.Close()
		return
	}
	o.sendWhoAmI(ev.ID)
}

func (o *Orchestrator) onJoinRequest(ev core.JoinRequest) {
	entry, ok := o.Registry.Lookup(ev.ID)
	if !ok {
		return
	}
	switch entry.State {
	case core.StateJoining:
		o.sendError(ev.ID, "Join already in progress")
		return
	case core.StateJoined:
		from := entry.RoomID
		o.leaveRoom(ev.ID)
		log.Info().Str("module", "orch").Str("conn", string(ev.ID)).Str("from_room", string(from)).Msg("left room before rejoin")
	}

	gen, _ := o.Registry.BeginJoin(ev.ID, ev.RoomID)
	user := entry.User
	parent := o.ctx
	log.Info().Str("module", "orch").Str("conn", string(ev.ID)).Str("room", string(ev.RoomID)).Msg("join requested")

	o.pending.Go(func() {
		ctx, cancel := context.WithTimeout(parent, o.admissionTimeout)
		defer cancel()
		sess, err := o.Gate.Admit(ctx, ev.RoomID, user)
		o.Submit(core.AdmissionResult{
			ID:      ev.ID,
			RoomID:  ev.RoomID,
			Gen:     gen,
			Session: sess,
			Err:     err,
		})
	})
}

func (o *Orchestrator) onAdmission(ev core.AdmissionResult) {
	entry, ok := o.Registry.Lookup(ev.ID)
	if !ok {
		log.Debug().Str("module", "orch").Str("conn", string(ev.ID)).Msg("admission for closed connection discarded")
		return
	}
	if _, gen := entry.Pending(); entry.State != core.StateJoining || gen != ev.Gen {
		log.Debug().Str("module", "orch").Str("conn", string(ev.ID)).Msg("stale admission discarded")
		return
	}
	if ev.Err != nil {
		o.Registry.AbortJoin(ev.ID)
		log.Warn().Err(ev.Err).Str("module", "orch").Str("conn", string(ev.ID)).Str("room", string(ev.RoomID)).Msg("join rejected")
		o.sendError(ev.ID, app.RejectionMessage(ev.Err))
		return
	}

	members := o.Rooms.Join(ev.RoomID, ev.ID)
	o.Registry.SetRoom(ev.ID, ev.RoomID)
	o.presenceJoin(ev.ID, members)

	if ev.Session != nil {
		o.Audit.RecordJoin(ev.Session.ID, entry.User.ID)
	}
}

func (o *Orchestrator) onLeaveRequest(ev core.LeaveRequest) {
	entry, ok := o.Registry.Lookup(ev.ID)
	if !ok {
		return
	}
	if entry.State == core.StateJoining {
		o.Registry.AbortJoin(ev.ID)
	}
	o.leaveRoom(ev.ID)
	o.send(ev.ID, struct {
		Type string `json:"type"`
	}{Type: core.TypeLeft}, app.DeliveryPresence)
}

func (o *Orchestrator) onDisconnect(ev core.Disconnect) {
	if _, ok := o.Registry.Lookup(ev.ID); !ok {
		return
	}
	o.leaveRoom(ev.ID)
	o.Registry.Remove(ev.ID)
}

// leaveRoom takes a joined connection out of its room and tells the rest.
// It is a no-op for connections that are not joined.
func (o *Orchestrator) leaveRoom(id core.ConnID) {
	entry, ok := o.Registry.Lookup(id)
	if !ok || entry.State != core.StateJoined {
		return
	}
	remaining, _ := o.Rooms.Leave(entry.RoomID, id)
	o.Registry.ClearRoom(id)
	o.presenceLeave(id, remaining)
	o.Audit.RecordLeave(entry.User.ID)
}
