package app

import (
	"slices"

	"github.com/dkeye/Podcast/internal/core"
	"github.com/dkeye/Podcast/internal/domain"
	"github.com/rs/zerolog/log"
)

// RoomTable maps room ids to member connection ids.
// Rooms are created on first Join and dropped when they empty.
// Not safe for concurrent use: only the orchestrator loop touches it.
type RoomTable struct {
	rooms map[domain.RoomID]map[core.ConnID]struct{}
}

func NewRoomTable() *RoomTable {
	return &RoomTable{rooms: make(map[domain.RoomID]map[core.ConnID]struct{})}
}

func (t *RoomTable) Join(roomID domain.RoomID, id core.ConnID) []core.ConnID {
	members, ok := t.rooms[roomID]
	if !ok {
		members = make(map[core.ConnID]struct{})
		t.rooms[roomID] = members
		log.Debug().Str("module", "app.rooms").Str("room", string(roomID)).Msg("room created")
	}
	members[id] = struct{}{}
	log.Info().Str("module", "app.rooms").Str("room", string(roomID)).Str("conn", string(id)).Int("size", len(members)).Msg("member added")
	return sorted(members)
}

// Leave removes id from roomID and reports whether the room is now gone.
// Unknown rooms and members are a no-op.
func (t *RoomTable) Leave(roomID domain.RoomID, id core.ConnID) ([]core.ConnID, bool) {
	members, ok := t.rooms[roomID]
	if !ok {
		return nil, false
	}
	if _, ok := members[id]; !ok {
		return nil, false
	}
	delete(members, id)
	log.Info().Str("module", "app.rooms").Str("room", string(roomID)).Str("conn", string(id)).Int("size", len(members)).Msg("member removed")
	if len(members) == 0 {
		delete(t.rooms, roomID)
		log.Debug().Str("module", "app.rooms").Str("room", string(roomID)).Msg("room deleted")
		return nil, true
	}
	return sorted(members), false
}

func (t *RoomTable) Members(roomID domain.RoomID) []core.ConnID {
	return sorted(t.rooms[roomID])
}

func (t *RoomTable) Size(roomID domain.RoomID) int {
	return len(t.rooms[roomID])
}

func (t *RoomTable) Has(roomID domain.RoomID) bool {
	_, ok := t.rooms[roomID]
	return ok
}

func (t *RoomTable) List() []core.RoomInfo {
	out := make([]core.RoomInfo, 0, len(t.rooms))
	for id, members := range t.rooms {
		out = append(out, core.RoomInfo{RoomID: id, MemberCount: len(members)})
	}
	slices.SortFunc(out, func(a, b core.RoomInfo) int {
		switch {
		case a.RoomID < b.RoomID:
			return -1
		case a.RoomID > b.RoomID:
			return 1
		}
		return 0
	})
	return out
}

func sorted(members map[core.ConnID]struct{}) []core.ConnID {
	out := make([]core.ConnID, 0, len(members))
	for id := range members {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
