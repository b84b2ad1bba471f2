package orch

import (
	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

type presenceNotice struct {
	User         domain.Identity     `json:"user"`
	ConnectionID domain.ConnectionID `json:"connectionId"`
	Message      string              `json:"message"`
}

type typingNotice struct {
	User     string `json:"user"`
	IsTyping bool   `json:"isTyping"`
}

// Join puts cid into room. A connection already in another room leaves it first.
func (o *Orchestrator) Join(cid domain.ConnectionID, room domain.RoomKey, user domain.Identity) {
	if _, current, ok := o.Registry.Lookup(cid); ok && current != room {
		o.leave(cid)
		log.Info().Str("module", "orch").Str("cid", string(cid)).Str("from_room", string(current)).Msg("switched room")
	}

	o.Registry.Register(cid, user, room)
	count := o.Presence.Join(room, cid, user)

	o.broadcast(room, cid, core.NewEvent(core.EvUserJoined, presenceNotice{
		User:         user,
		ConnectionID: cid,
		Message:      user.DisplayName() + " joined the room",
	}))

	others := make([]domain.Member, 0, count)
	for _, m := range o.Presence.MembersOf(room) {
		if m.ConnectionID != cid {
			others = append(others, m)
		}
	}
	o.sendTo(room, cid, core.NewEvent(core.EvRoomUsers, others))
	o.broadcast(room, "", core.NewEvent(core.EvUsersCount, o.Presence.CountOf(room)))

	log.Info().Str("module", "orch").Str("cid", string(cid)).Str("room", string(room)).Int("members", count).Msg("joined room")
}

// Leave removes cid from room. It does nothing unless cid is registered to room.
func (o *Orchestrator) Leave(cid domain.ConnectionID, room domain.RoomKey) {
	_, current, ok := o.Registry.Lookup(cid)
	if !ok || current != room {
		return
	}
	o.leave(cid)
}

// Disconnect releases whatever room cid was in. Unknown connections are ignored.
func (o *Orchestrator) Disconnect(cid domain.ConnectionID) {
	o.leave(cid)
}

func (o *Orchestrator) leave(cid domain.ConnectionID) {
	user, room, ok := o.Registry.Unregister(cid)
	if !ok {
		return
	}
	remaining := o.Presence.Leave(room, cid)
	if remaining > 0 {
		o.broadcast(room, cid, core.NewEvent(core.EvUsersCount, remaining))
	}
	o.broadcast(room, cid, core.NewEvent(core.EvUserLeft, presenceNotice{
		User:         user,
		ConnectionID: cid,
		Message:      user.DisplayName() + " left the room",
	}))
	log.Info().Str("module", "orch").Str("cid", string(cid)).Str("room", string(room)).Int("members", remaining).Msg("left room")
}

func (o *Orchestrator) Typing(cid domain.ConnectionID, room domain.RoomKey, user domain.Identity, isTyping bool) {
	o.broadcast(room, cid, core.NewEvent(core.EvUserTyping, typingNotice{
		User:     user.DisplayName(),
		IsTyping: isTyping,
	}))
}

// LiveRooms lists rooms with at least one member.
func (o *Orchestrator) LiveRooms() []domain.RoomInfo {
	return o.Presence.Rooms()
}
