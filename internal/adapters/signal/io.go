package signal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	errBadPayload = "bad_payload"
	errRateLimit  = "rate limit exceeded"
	errInternal   = "internal error"
)

type inbound struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func (ctl *SignalWSController) writePump(ctx context.Context, cid domain.ConnectionID, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.opts.PingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Str("cid", string(cid)).Msg("writePump ctx done")
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"),
				time.Now().Add(ctl.opts.WriteWait))
			return
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "signal").Str("cid", string(cid)).Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.opts.WriteWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Str("cid", string(cid)).Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Warn().Err(err).Str("module", "signal").Str("cid", string(cid)).Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(ctl.opts.WriteWait)); err != nil {
				log.Warn().Err(err).Str("module", "signal").Str("cid", string(cid)).Msg("writePump ping failed")
				return
			}
		}
	}
}

// readPump is the only reader of the connection, so one connection's events
// are handled strictly in arrival order. Disconnect runs here too.
func (ctl *SignalWSController) readPump(ctx context.Context, cancel context.CancelFunc, cid domain.ConnectionID, c *WsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("cid", string(cid)).Msg("readPump closing")
		ctl.Orch.Disconnect(cid)
		ctl.Orch.Registry.Detach(cid)
		ctl.Limiter.Forget(context.Background(), string(cid))
		cancel()
		c.Close()
	}()

	c.conn.SetReadLimit(ctl.opts.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(ctl.opts.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(ctl.opts.PongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("module", "signal").Str("cid", string(cid)).Msg("readPump read error")
			}
			return
		}
		ctl.handleSignal(ctx, cid, data)
	}
}

func (ctl *SignalWSController) handleSignal(ctx context.Context, cid domain.ConnectionID, data []byte) {
	var env inbound
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("cid", string(cid)).Msg("bad json")
		ctl.Orch.SendError(cid, errBadPayload, err.Error())
		return
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("module", "signal").Str("cid", string(cid)).Str("type", env.Type).
				Str("panic", fmt.Sprint(r)).Msg("handler panic")
			ctl.Orch.SendError(cid, errInternal, "")
		}
	}()

	allowed, err := ctl.Limiter.Allow(ctx, string(cid))
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("cid", string(cid)).Msg("rate limiter unavailable")
		allowed = true
	}
	if !allowed {
		ctl.Orch.SendError(cid, errRateLimit, "")
		return
	}

	switch env.Type {
	case core.EvJoinRoom:
		ctl.handleJoin(cid, env.Payload)
	case core.EvLeaveRoom:
		ctl.handleLeave(cid, env.Payload)
	case core.EvTyping:
		ctl.handleTyping(cid, env.Payload)
	case core.EvSendMessage:
		ctl.handleSendMessage(ctx, cid, env.Payload)
	case core.EvMessageDeleted:
		ctl.handleMessageDeleted(cid, env.Payload)
	case core.EvUserJoinedVideo, core.EvUserLeftVideo, core.EvVideoCallStarted:
		ctl.handleCallEvent(cid, env.Type, env.Payload)
	case core.EvWebRTCOffer:
		ctl.handleForward(cid, domain.SignalOffer, env.Payload)
	case core.EvWebRTCAnswer:
		ctl.handleForward(cid, domain.SignalAnswer, env.Payload)
	case core.EvWebRTCCandidate:
		ctl.handleForward(cid, domain.SignalICECandidate, env.Payload)
	case core.EvPing:
		ctl.handlePing(cid)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown signal")
		ctl.Orch.SendError(cid, errBadPayload, "unknown event type: "+env.Type)
	}
}

// decode fills v from payload, replying with an error event on failure.
func (ctl *SignalWSController) decode(cid domain.ConnectionID, payload json.RawMessage, v any) bool {
	if len(payload) == 0 {
		ctl.Orch.SendError(cid, errBadPayload, "missing payload")
		return false
	}
	if err := json.Unmarshal(payload, v); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("cid", string(cid)).Msg("bad payload")
		ctl.Orch.SendError(cid, errBadPayload, err.Error())
		return false
	}
	return true
}

func (ctl *SignalWSController) reject(cid domain.ConnectionID, err error) {
	ctl.Orch.SendError(cid, errBadPayload, err.Error())
}
