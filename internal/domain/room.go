package domain

import (
	"errors"
	"strings"
	"time"
)

const (
	MaxRoomKeyLen    = 128
	DefaultRoomColor = "#007bff"
)

var (
	ErrRoomKeyEmpty   = errors.New("room key empty")
	ErrRoomKeyTooLong = errors.New("room key too long")
)

// RoomKey names a room. It is both the live topic and the durable lookup key.
type RoomKey string

func ParseRoomKey(raw string) (RoomKey, error) {
	key := strings.TrimSpace(raw)
	if key == "" {
		return "", ErrRoomKeyEmpty
	}
	if len(key) > MaxRoomKeyLen {
		return "", ErrRoomKeyTooLong
	}
	return RoomKey(key), nil
}

type RoomID string

// Room is the durable record kept by the room directory.
type Room struct {
	ID           RoomID    `json:"_id"`
	Name         RoomKey   `json:"name"`
	CreatedBy    string    `json:"createdBy"`
	IsPrivate    bool      `json:"isPrivate"`
	Color        string    `json:"color"`
	Participants []string  `json:"participants"`
	CreatedAt    time.Time `json:"createdAt"`
}

// RoomAttrs are the fields used when a room is created lazily.
type RoomAttrs struct {
	CreatedBy    string
	IsPrivate    bool
	Color        string
	Participants []string
}

// DefaultRoomAttrs describes a public room created on first use.
func DefaultRoomAttrs(creator Identity) RoomAttrs {
	return RoomAttrs{
		CreatedBy:    creator.DisplayName(),
		Color:        DefaultRoomColor,
		Participants: []string{},
	}
}

// RoomInfo is a live room summary.
type RoomInfo struct {
	Name        RoomKey `json:"name"`
	MemberCount int     `json:"client_count"`
}
