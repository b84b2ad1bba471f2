package core

import (
	"context"
	"errors"

	"github.com/dkeye/Huddle/internal/domain"
)

var ErrNotFound = errors.New("not found")

// RoomDirectory is the durable room store.
type RoomDirectory interface {
	// FindByName returns ErrNotFound when no room carries the name.
	FindByName(ctx context.Context, name domain.RoomKey) (*domain.Room, error)
	// CreateOrGetByName is an atomic upsert: concurrent callers for the same
	// name all get the single stored record.
	CreateOrGetByName(ctx context.Context, name domain.RoomKey, attrs domain.RoomAttrs) (*domain.Room, error)
}

// MessageStore is the durable chat history.
type MessageStore interface {
	Create(ctx context.Context, room domain.RoomID, author string, body domain.MessageBody) (*domain.Message, error)
	// FindByRoom returns the newest limit messages, oldest first.
	FindByRoom(ctx context.Context, room domain.RoomID, limit int) ([]domain.Message, error)
	Delete(ctx context.Context, id domain.MessageID) error
}
