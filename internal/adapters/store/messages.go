package store

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
)

// MessageRepository stores chat messages. Ids are ULIDs, so id order is
// creation order.
type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, room domain.RoomID, author string, body domain.MessageBody) (*domain.Message, error) {
	rec := messageRecord{
		ID:        ulid.Make().String(),
		RoomID:    string(room),
		User:      author,
		Text:      body.Text,
		Code:      body.Code,
		Language:  body.Language,
		Output:    body.Output,
		IsCode:    body.IsCode,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	msg := rec.toDomain()
	return &msg, nil
}

// FindByRoom returns the latest limit messages of room, oldest first.
func (r *MessageRepository) FindByRoom(ctx context.Context, room domain.RoomID, limit int) ([]domain.Message, error) {
	var recs []messageRecord
	q := r.db.WithContext(ctx).Where("room_id = ?", string(room)).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to find messages: %w", err)
	}
	out := make([]domain.Message, len(recs))
	for i, rec := range recs {
		out[len(recs)-1-i] = rec.toDomain()
	}
	return out, nil
}

func (r *MessageRepository) Delete(ctx context.Context, id domain.MessageID) error {
	res := r.db.WithContext(ctx).Delete(&messageRecord{}, "id = ?", string(id))
	if err := res.Error; err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	if res.RowsAffected == 0 {
		return core.ErrNotFound
	}
	return nil
}

var _ core.MessageStore = (*MessageRepository)(nil)
var _ core.RoomDirectory = (*RoomRepository)(nil)
