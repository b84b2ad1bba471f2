package domain

import (
	"errors"
	"time"
)

var ErrEmptyMessage = errors.New("message has neither text nor code")

type MessageID string

// MessageBody is the client supplied part of a chat message.
type MessageBody struct {
	Text     string `json:"text,omitempty"`
	Code     string `json:"code,omitempty"`
	Language string `json:"language,omitempty"`
	Output   string `json:"output,omitempty"`
	IsCode   bool   `json:"isCode"`
}

func (b MessageBody) Validate() error {
	if b.Text == "" && b.Code == "" {
		return ErrEmptyMessage
	}
	return nil
}

// Message is a persisted chat message. Immutable once stored.
type Message struct {
	ID   MessageID `json:"_id"`
	Room RoomID    `json:"room"`
	User string    `json:"user"`
	MessageBody
	CreatedAt time.Time `json:"createdAt"`
}
