package domain

import "encoding/json"

type SignalKind string

const (
	SignalOffer        SignalKind = "offer"
	SignalAnswer       SignalKind = "answer"
	SignalICECandidate SignalKind = "candidate"
)

// Envelope carries one signaling hop. It is never persisted.
type Envelope struct {
	Room    RoomKey
	From    ConnectionID
	To      ConnectionID
	Kind    SignalKind
	Payload json.RawMessage
}

// CallEvent is a call lifecycle notice broadcast to the rest of a room.
type CallEvent struct {
	RoomID    RoomKey `json:"roomId"`
	UserID    string  `json:"userId,omitempty"`
	Username  string  `json:"username,omitempty"`
	Email     string  `json:"email,omitempty"`
	StartedBy string  `json:"startedBy,omitempty"`

	// Timestamp is relayed as sent; clients use both numbers and ISO strings.
	Timestamp json.RawMessage `json:"timestamp,omitempty"`
}
