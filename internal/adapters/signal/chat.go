package signal

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dkeye/Huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

const storeTimeout = 10 * time.Second

func (ctl *SignalWSController) handleSendMessage(ctx context.Context, cid domain.ConnectionID, payload json.RawMessage) {
	var p struct {
		roomPayload
		domain.MessageBody
	}
	if !ctl.decode(cid, payload, &p) {
		return
	}
	room, user, err := p.parse()
	if err != nil {
		ctl.reject(cid, err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	if _, err := ctl.Orch.Submit(ctx, cid, room, user, p.MessageBody); err != nil {
		if errors.Is(err, domain.ErrEmptyMessage) {
			ctl.reject(cid, err)
			return
		}
		log.Error().Err(err).Str("module", "signal").Str("cid", string(cid)).Str("room", string(room)).Msg("send message failed")
		ctl.Orch.SendError(cid, "Failed to send message", err.Error())
	}
}

func (ctl *SignalWSController) handleMessageDeleted(cid domain.ConnectionID, payload json.RawMessage) {
	var p struct {
		RoomID    string `json:"roomId"`
		MessageID string `json:"messageId"`
		DeletedBy string `json:"deletedBy"`
	}
	if !ctl.decode(cid, payload, &p) {
		return
	}
	room, err := domain.ParseRoomKey(p.RoomID)
	if err != nil {
		ctl.reject(cid, err)
		return
	}
	if p.MessageID == "" {
		ctl.Orch.SendError(cid, errBadPayload, "messageId required")
		return
	}
	log.Info().Str("module", "signal").Str("cid", string(cid)).Str("room", string(room)).Str("id", p.MessageID).Msg("message deleted")
	ctl.Orch.NotifyDeleted(cid, room, domain.MessageID(p.MessageID), p.DeletedBy)
}
