package signal

import "github.com/dkeye/Huddle/internal/domain"

func (ctl *SignalWSController) handlePing(cid domain.ConnectionID) {
	ctl.Orch.Pong(cid)
}
