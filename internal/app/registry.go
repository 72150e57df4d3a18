package app

import (
	"fmt"

	"github.com/dkeye/Podcast/internal/core"
	"github.com/dkeye/Podcast/internal/domain"
	"github.com/rs/zerolog/log"
)

// ConnEntry is a registry snapshot of one connection.
type ConnEntry struct {
	ID     core.ConnID
	User   *domain.User
	RoomID domain.RoomID
	State  core.ConnState
	Conn   core.SignalConnection

	pendingRoom domain.RoomID
	pendingGen  uint64
}

// Pending reports the room and generation of an in-flight join.
func (e ConnEntry) Pending() (domain.RoomID, uint64) { return e.pendingRoom, e.pendingGen }

// Registry maps connection ids to identity, room and transport.
// Not safe for concurrent use: only the orchestrator loop touches it.
type Registry struct {
	entries map[core.ConnID]*ConnEntry
	gen     uint64
}

func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[core.ConnID]*ConnEntry),
	}
}

func (r *Registry) Register(id core.ConnID, user *domain.User, conn core.SignalConnection) error {
	if _, ok := r.entries[id]; ok {
		return fmt.Errorf("register %s: %w", id, core.ErrDuplicateConnection)
	}
	r.entries[id] = &ConnEntry{
		ID:    id,
		User:  user,
		State: core.StateUnjoined,
		Conn:  conn,
	}
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Str("user", string(user.ID)).Msg("registered connection")
	return nil
}

func (r *Registry) Lookup(id core.ConnID) (ConnEntry, bool) {
	e, ok := r.entries[id]
	if !ok {
		return ConnEntry{}, false
	}
	return *e, true
}

// Conn returns the live transport of id.
func (r *Registry) Conn(id core.ConnID) (core.SignalConnection, bool) {
	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	return e.Conn, true
}

// BeginJoin moves id to Joining and returns the generation the admission
// result has to carry back.
func (r *Registry) BeginJoin(id core.ConnID, roomID domain.RoomID) (uint64, bool) {
	e, ok := r.entries[id]
	if !ok {
		return 0, false
	}
	r.gen++
	e.State = core.StateJoining
	e.pendingRoom = roomID
	e.pendingGen = r.gen
	return r.gen, true
}

// AbortJoin returns a Joining connection to Unjoined.
func (r *Registry) AbortJoin(id core.ConnID) {
	e, ok := r.entries[id]
	if !ok || e.State != core.StateJoining {
		return
	}
	e.State = core.StateUnjoined
	e.pendingRoom = ""
	e.pendingGen = 0
}

func (r *Registry) SetRoom(id core.ConnID, roomID domain.RoomID) bool {
	e, ok := r.entries[id]
	if !ok {
		return false
	}
	e.RoomID = roomID
	e.State = core.StateJoined
	e.pendingRoom = ""
	e.pendingGen = 0
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Str("room", string(roomID)).Msg("updated room")
	return true
}

// ClearRoom marks a joined connection as Left.
func (r *Registry) ClearRoom(id core.ConnID) bool {
	e, ok := r.entries[id]
	if !ok || e.State != core.StateJoined {
		return false
	}
	e.RoomID = ""
	e.State = core.StateLeft
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("removed room association")
	return true
}

// Remove is idempotent.
func (r *Registry) Remove(id core.ConnID) (ConnEntry, bool) {
	e, ok := r.entries[id]
	if !ok {
		return ConnEntry{}, false
	}
	delete(r.entries, id)
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("unbind connection")
	return *e, true
}

func (r *Registry) Len() int { return len(r.entries) }

// All returns every registered connection id.
func (r *Registry) All() []core.ConnID {
	out := make([]core.ConnID, 0, len(r.entries))
	for id := range r.entries {
		out = append(out, id)
	}
	return out
}
