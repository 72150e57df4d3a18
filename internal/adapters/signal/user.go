package signal

import "github.com/dkeye/Podcast/internal/core"

func (ctl *SignalWSController) handleWhoAmI(id core.ConnID) {
	ctl.Orch.Submit(core.WhoAmIRequest{ID: id})
}
