package core

import "encoding/json"

// Event is the wire envelope used in both directions.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

func NewEvent(typ string, payload any) Event {
	return Event{Type: typ, Payload: payload}
}

func Encode(ev Event) (Frame, error) {
	b, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	return Frame(b), nil
}

// Inbound event types.
const (
	EvJoinRoom         = "join-room"
	EvLeaveRoom        = "leave-room"
	EvSendMessage      = "send-message"
	EvTyping           = "typing"
	EvMessageDeleted   = "message-deleted"
	EvUserJoinedVideo  = "user-joined-video"
	EvUserLeftVideo    = "user-left-video"
	EvVideoCallStarted = "video-call-started"
	EvWebRTCOffer      = "webrtc-offer"
	EvWebRTCAnswer     = "webrtc-answer"
	EvWebRTCCandidate  = "webrtc-ice-candidate"
	EvPing             = "ping"
)

// Outbound-only event types. message-deleted, the call lifecycle events and
// the webrtc events keep their inbound names.
const (
	EvConnected  = "connected"
	EvUserJoined = "user-joined"
	EvUserLeft   = "user-left"
	EvRoomUsers  = "room-users"
	EvUsersCount = "users-count"
	EvNewMessage = "new-message"
	EvUserTyping = "user-typing"
	EvPong       = "pong"
	EvError      = "error"
)

// ErrorPayload is the body of an error event.
type ErrorPayload struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
