package orch

import (
	"context"
	"fmt"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

type deletedNotice struct {
	RoomID    domain.RoomKey   `json:"roomId"`
	MessageID domain.MessageID `json:"messageId"`
	DeletedBy string           `json:"deletedBy,omitempty"`
}

// Submit persists a message, creating the room on first use, and delivers it
// to every member of room, the sender included. Nothing is broadcast on error.
func (o *Orchestrator) Submit(ctx context.Context, cid domain.ConnectionID, room domain.RoomKey, user domain.Identity, body domain.MessageBody) (*domain.Message, error) {
	if err := body.Validate(); err != nil {
		return nil, err
	}
	rec, err := o.Rooms.Resolve(ctx, room, user)
	if err != nil {
		return nil, err
	}
	msg, err := o.Messages.Create(ctx, rec.ID, user.DisplayName(), body)
	if err != nil {
		return nil, fmt.Errorf("store message: %w", err)
	}
	n := o.broadcast(room, "", core.NewEvent(core.EvNewMessage, msg))
	log.Info().Str("module", "orch").Str("cid", string(cid)).Str("room", string(room)).
		Str("id", string(msg.ID)).Int("recipients", n).Msg("message relayed")
	return msg, nil
}

// NotifyDeleted relays a deletion made elsewhere to the rest of the room.
func (o *Orchestrator) NotifyDeleted(cid domain.ConnectionID, room domain.RoomKey, id domain.MessageID, deletedBy string) {
	o.broadcast(room, cid, core.NewEvent(core.EvMessageDeleted, deletedNotice{
		RoomID:    room,
		MessageID: id,
		DeletedBy: deletedBy,
	}))
}

// DeleteMessage removes a stored message and tells the whole room.
func (o *Orchestrator) DeleteMessage(ctx context.Context, room domain.RoomKey, id domain.MessageID, deletedBy string) error {
	if err := o.Messages.Delete(ctx, id); err != nil {
		return err
	}
	o.NotifyDeleted("", room, id, deletedBy)
	return nil
}

// History returns up to limit recent messages of room, oldest first.
// core.ErrNotFound means the room was never created.
func (o *Orchestrator) History(ctx context.Context, room domain.RoomKey, limit int) ([]domain.Message, error) {
	rec, err := o.Rooms.Lookup(ctx, room)
	if err != nil {
		return nil, err
	}
	return o.Messages.FindByRoom(ctx, rec.ID, limit)
}
