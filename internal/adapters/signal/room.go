package signal

import (
	"encoding/json"

	"github.com/dkeye/Huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

type roomPayload struct {
	RoomID string          `json:"roomId"`
	User   domain.Identity `json:"user"`
}

// parse validates the room key and the claimed identity.
func (p roomPayload) parse() (domain.RoomKey, domain.Identity, error) {
	room, err := domain.ParseRoomKey(p.RoomID)
	if err != nil {
		return "", domain.Identity{}, err
	}
	user, err := p.User.Normalize()
	if err != nil {
		return "", domain.Identity{}, err
	}
	return room, user, nil
}

func (ctl *SignalWSController) handleJoin(cid domain.ConnectionID, payload json.RawMessage) {
	var p roomPayload
	if !ctl.decode(cid, payload, &p) {
		return
	}
	room, user, err := p.parse()
	if err != nil {
		ctl.reject(cid, err)
		return
	}
	log.Info().Str("module", "signal").Str("cid", string(cid)).Str("room", string(room)).Msg("join")
	ctl.Orch.Join(cid, room, user)
}

// handleLeave takes the connection out of its room. The socket stays open.
func (ctl *SignalWSController) handleLeave(cid domain.ConnectionID, payload json.RawMessage) {
	var p roomPayload
	if !ctl.decode(cid, payload, &p) {
		return
	}
	room, err := domain.ParseRoomKey(p.RoomID)
	if err != nil {
		ctl.reject(cid, err)
		return
	}
	log.Info().Str("module", "signal").Str("cid", string(cid)).Str("room", string(room)).Msg("leave")
	ctl.Orch.Leave(cid, room)
}

func (ctl *SignalWSController) handleTyping(cid domain.ConnectionID, payload json.RawMessage) {
	var p struct {
		roomPayload
		IsTyping bool `json:"isTyping"`
	}
	if !ctl.decode(cid, payload, &p) {
		return
	}
	room, user, err := p.parse()
	if err != nil {
		ctl.reject(cid, err)
		return
	}
	ctl.Orch.Typing(cid, room, user, p.IsTyping)
}
