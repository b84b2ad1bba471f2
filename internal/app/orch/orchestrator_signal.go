package orch

import (
	"encoding/json"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

var signalEvents = map[domain.SignalKind]string{
	domain.SignalOffer:        core.EvWebRTCOffer,
	domain.SignalAnswer:       core.EvWebRTCAnswer,
	domain.SignalICECandidate: core.EvWebRTCCandidate,
}

// Forward hands one signaling envelope to its target. Targets that are gone or
// not in the room are dropped silently; nothing is retried.
func (o *Orchestrator) Forward(env domain.Envelope) bool {
	typ, ok := signalEvents[env.Kind]
	if !ok {
		return false
	}
	if !o.Presence.Contains(env.Room, env.To) {
		log.Debug().Str("module", "orch").Str("from", string(env.From)).Str("to", string(env.To)).
			Str("room", string(env.Room)).Msg("signal target not in room, dropped")
		return false
	}
	payload := env.Payload
	if len(payload) == 0 {
		payload = json.RawMessage("null")
	}
	o.sendTo(env.Room, env.To, core.NewEvent(typ, map[string]any{
		"roomId":         env.Room,
		"from":           env.From,
		string(env.Kind): payload,
	}))
	return true
}

// CallEvent tells the rest of the room about a call lifecycle change. Each
// kind carries only the fields that belong to it.
func (o *Orchestrator) CallEvent(cid domain.ConnectionID, typ string, ev domain.CallEvent) {
	out := domain.CallEvent{RoomID: ev.RoomID}
	switch typ {
	case core.EvUserJoinedVideo:
		out.UserID, out.Username, out.Email = ev.UserID, ev.Username, ev.Email
	case core.EvUserLeftVideo:
		out.UserID = ev.UserID
	case core.EvVideoCallStarted:
		out.StartedBy, out.Timestamp = ev.StartedBy, ev.Timestamp
	default:
		return
	}
	n := o.broadcast(ev.RoomID, cid, core.NewEvent(typ, out))
	log.Debug().Str("module", "orch").Str("cid", string(cid)).Str("type", typ).Int("recipients", n).Msg("call event relayed")
}
