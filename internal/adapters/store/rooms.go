package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
)

// RoomRepository is the durable room directory, keyed by unique room name.
type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) FindByName(ctx context.Context, name domain.RoomKey) (*domain.Room, error) {
	var rec roomRecord
	if err := r.db.WithContext(ctx).First(&rec, "name = ?", string(name)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find room: %w", err)
	}
	return rec.toDomain(), nil
}

// CreateOrGetByName inserts the room unless one with that name exists and
// returns whichever record won. The unique name index makes it safe across
// processes.
func (r *RoomRepository) CreateOrGetByName(ctx context.Context, name domain.RoomKey, attrs domain.RoomAttrs) (*domain.Room, error) {
	rec := roomRecord{
		ID:           uuid.NewString(),
		Name:         string(name),
		CreatedBy:    attrs.CreatedBy,
		IsPrivate:    attrs.IsPrivate,
		Color:        attrs.Color,
		Participants: attrs.Participants,
		CreatedAt:    time.Now().UTC(),
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&rec)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to create room: %w", res.Error)
	}
	if res.RowsAffected == 1 {
		return rec.toDomain(), nil
	}
	return r.FindByName(ctx, name)
}

// List returns every stored room, newest first.
func (r *RoomRepository) List(ctx context.Context) ([]domain.Room, error) {
	var recs []roomRecord
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	out := make([]domain.Room, 0, len(recs))
	for _, rec := range recs {
		out = append(out, *rec.toDomain())
	}
	return out, nil
}
