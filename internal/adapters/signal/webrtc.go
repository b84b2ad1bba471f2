package signal

import (
	"encoding/json"

	"github.com/dkeye/Huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

type forwardPayload struct {
	RoomID string `json:"roomId"`
	To     string `json:"to"`
	// From is accepted for compatibility and ignored; the sender's own
	// connection id is used instead.
	From      string          `json:"from,omitempty"`
	Offer     json.RawMessage `json:"offer"`
	Answer    json.RawMessage `json:"answer"`
	Candidate json.RawMessage `json:"candidate"`
}

func (p forwardPayload) body(kind domain.SignalKind) json.RawMessage {
	switch kind {
	case domain.SignalOffer:
		return p.Offer
	case domain.SignalAnswer:
		return p.Answer
	default:
		return p.Candidate
	}
}

func (ctl *SignalWSController) handleForward(cid domain.ConnectionID, kind domain.SignalKind, payload json.RawMessage) {
	var p forwardPayload
	if !ctl.decode(cid, payload, &p) {
		return
	}
	room, err := domain.ParseRoomKey(p.RoomID)
	if err != nil {
		ctl.reject(cid, err)
		return
	}
	if p.To == "" {
		ctl.Orch.SendError(cid, errBadPayload, "to required")
		return
	}
	delivered := ctl.Orch.Forward(domain.Envelope{
		Room:    room,
		From:    cid,
		To:      domain.ConnectionID(p.To),
		Kind:    kind,
		Payload: p.body(kind),
	})
	log.Debug().Str("module", "signal").Str("cid", string(cid)).Str("to", p.To).
		Str("kind", string(kind)).Bool("delivered", delivered).Msg("forward")
}

func (ctl *SignalWSController) handleCallEvent(cid domain.ConnectionID, typ string, payload json.RawMessage) {
	var p struct {
		domain.CallEvent
		RoomID string `json:"roomId"`
	}
	if !ctl.decode(cid, payload, &p) {
		return
	}
	room, err := domain.ParseRoomKey(p.RoomID)
	if err != nil {
		ctl.reject(cid, err)
		return
	}
	ev := p.CallEvent
	ev.RoomID = room
	log.Info().Str("module", "signal").Str("cid", string(cid)).Str("room", string(room)).Str("type", typ).Msg("call event")
	ctl.Orch.CallEvent(cid, typ, ev)
}
