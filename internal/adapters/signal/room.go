package signal

import (
	"encoding/json"

	"github.com/dkeye/Podcast/internal/core"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleJoin(id core.ConnID, conn *WsSignalConn, data []byte) {
	var p core.JoinRoomMsg
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendJSON(conn, core.ErrorMsg{Type: core.TypeError, Message: "Failed to join room"})
		return
	}
	log.Info().Str("module", "signal").Str("conn", string(id)).Str("room", string(p.RoomID)).Msg("join")
	ctl.Orch.Submit(core.JoinRequest{ID: id, RoomID: p.RoomID})
}

// handleLeave leaves the current room; the connection stays open.
func (ctl *SignalWSController) handleLeave(id core.ConnID) {
	log.Info().Str("module", "signal").Str("conn", string(id)).Msg("leave")
	ctl.Orch.Submit(core.LeaveRequest{ID: id})
}
