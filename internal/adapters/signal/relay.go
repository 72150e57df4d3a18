package signal

import (
	"encoding/json"

	"github.com/dkeye/Podcast/internal/core"
	"github.com/rs/zerolog/log"
)

// handleRelay forwards offer/answer/ice-candidate to the loop. The sender
// is always the connection the frame arrived on.
func (ctl *SignalWSController) handleRelay(id core.ConnID, data []byte) {
	var env core.SignalEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad signal payload")
		return
	}
	if env.TargetID == "" {
		log.Debug().Str("module", "signal").Str("conn", string(id)).Str("kind", string(env.Type)).Msg("signal without target dropped")
		return
	}
	ctl.Orch.Submit(core.SignalRequest{
		ID:       id,
		Kind:     env.Type,
		Payload:  env.Payload(),
		RoomID:   env.RoomID,
		TargetID: env.TargetID,
	})
}
