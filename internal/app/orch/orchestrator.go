// Package orch is the hub: it turns room, chat and signaling commands into
// presence changes, store calls and fan-out to connections.
package orch

import (
	"errors"

	"github.com/dkeye/Huddle/internal/app"
	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

type Orchestrator struct {
	Registry *app.Registry
	Presence *app.PresenceTable
	Rooms    *app.RoomResolver
	Messages core.MessageStore
	Policy   app.Policy
}

func New(reg *app.Registry, presence *app.PresenceTable, rooms *app.RoomResolver, messages core.MessageStore, policy app.Policy) *Orchestrator {
	if policy == nil {
		policy = app.SimplePolicy{}
	}
	return &Orchestrator{
		Registry: reg,
		Presence: presence,
		Rooms:    rooms,
		Messages: messages,
		Policy:   policy,
	}
}

// Greet tells a fresh connection the id others use to address it.
func (o *Orchestrator) Greet(cid domain.ConnectionID) {
	o.sendTo("", cid, core.NewEvent(core.EvConnected, map[string]domain.ConnectionID{"connectionId": cid}))
}

func (o *Orchestrator) Pong(cid domain.ConnectionID) {
	o.sendTo("", cid, core.NewEvent(core.EvPong, nil))
}

// SendError reports a failed command to the originating connection only.
func (o *Orchestrator) SendError(cid domain.ConnectionID, message, details string) {
	o.sendTo("", cid, core.NewEvent(core.EvError, core.ErrorPayload{Message: message, Details: details}))
}

// Shutdown closes every live connection. Their read loops run the usual
// disconnect path.
func (o *Orchestrator) Shutdown() int {
	return o.Registry.CloseAll()
}

func (o *Orchestrator) sendTo(room domain.RoomKey, cid domain.ConnectionID, ev core.Event) {
	frame, err := core.Encode(ev)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Str("type", ev.Type).Msg("encode failed")
		return
	}
	o.deliver(room, cid, frame)
}

// broadcast encodes once and enqueues to every member of room except one.
// Pass an empty except to reach everyone.
func (o *Orchestrator) broadcast(room domain.RoomKey, except domain.ConnectionID, ev core.Event) int {
	frame, err := core.Encode(ev)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Str("type", ev.Type).Msg("encode failed")
		return 0
	}
	sent := 0
	for _, cid := range o.Presence.ConnectionsOf(room) {
		if cid == except {
			continue
		}
		if o.deliver(room, cid, frame) {
			sent++
		}
	}
	return sent
}

func (o *Orchestrator) deliver(room domain.RoomKey, cid domain.ConnectionID, frame core.Frame) bool {
	conn, ok := o.Registry.Conn(cid)
	if !ok {
		return false
	}
	err := conn.TrySend(frame)
	switch {
	case err == nil:
		return true
	case errors.Is(err, core.ErrBackpressure):
		switch o.Policy.OnBackPressure(room, cid) {
		case app.KickMember:
			log.Warn().Str("module", "orch").Str("cid", string(cid)).Str("room", string(room)).Msg("slow consumer, kicking")
			o.Registry.Kick(cid)
		case app.DropFrame, app.NoAction:
			log.Debug().Str("module", "orch").Str("cid", string(cid)).Msg("frame dropped")
		}
	case errors.Is(err, core.ErrConnClosed):
	default:
		log.Warn().Err(err).Str("module", "orch").Str("cid", string(cid)).Msg("send failed")
	}
	return false
}
