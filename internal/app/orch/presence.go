package orch

import (
	"github.com/dkeye/Podcast/internal/app"
	"github.com/dkeye/Podcast/internal/core"
)

// presenceJoin runs after id was added; members includes id.
func (o *Orchestrator) presenceJoin(id core.ConnID, members []core.ConnID) {
	existing := make([]core.ConnID, 0, len(members))
	for _, m := range members {
		if m != id {
			existing = append(existing, m)
		}
	}
	o.send(id, core.ExistingParticipantsMsg{
		Type:         core.TypeExistingParticipants,
		Participants: existing,
	}, app.DeliveryPresence)

	connected := core.PeerMsg{Type: core.TypeUserConnected, ConnectionID: id}
	for _, m := range existing {
		o.send(m, connected, app.DeliveryPresence)
	}
	o.broadcastCount(members)
}

// presenceLeave runs after id was removed; remaining excludes id.
func (o *Orchestrator) presenceLeave(id core.ConnID, remaining []core.ConnID) {
	if len(remaining) == 0 {
		return
	}
	gone := core.PeerMsg{Type: core.TypeUserDisconnected, ConnectionID: id}
	for _, m := range remaining {
		o.send(m, gone, app.DeliveryPresence)
	}
	o.broadcastCount(remaining)
}

func (o *Orchestrator) broadcastCount(members []core.ConnID) {
	msg := core.ParticipantCountMsg{Type: core.TypeParticipantCount, Count: len(members)}
	for _, m := range members {
		o.send(m, msg, app.DeliveryPresence)
	}
}
