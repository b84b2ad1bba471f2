package store

import (
	"time"

	"github.com/dkeye/Huddle/internal/domain"
)

type roomRecord struct {
	ID           string    `gorm:"primarykey;size:36"`
	Name         string    `gorm:"size:128;not null;uniqueIndex"`
	CreatedBy    string    `gorm:"size:254;not null"`
	IsPrivate    bool      `gorm:"not null;default:false"`
	Color        string    `gorm:"size:16;not null"`
	Participants []string  `gorm:"serializer:json"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (roomRecord) TableName() string {
	return "rooms"
}

func (r roomRecord) toDomain() *domain.Room {
	participants := r.Participants
	if participants == nil {
		participants = []string{}
	}
	return &domain.Room{
		ID:           domain.RoomID(r.ID),
		Name:         domain.RoomKey(r.Name),
		CreatedBy:    r.CreatedBy,
		IsPrivate:    r.IsPrivate,
		Color:        r.Color,
		Participants: participants,
		CreatedAt:    r.CreatedAt,
	}
}

type messageRecord struct {
	ID        string `gorm:"primarykey;size:26"`
	RoomID    string `gorm:"size:36;not null;index"`
	User      string `gorm:"size:254;not null"`
	Text      string
	Code      string
	Language  string `gorm:"size:32"`
	Output    string
	IsCode    bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null"`
}

func (messageRecord) TableName() string {
	return "messages"
}

func (m messageRecord) toDomain() domain.Message {
	return domain.Message{
		ID:   domain.MessageID(m.ID),
		Room: domain.RoomID(m.RoomID),
		User: m.User,
		MessageBody: domain.MessageBody{
			Text:     m.Text,
			Code:     m.Code,
			Language: m.Language,
			Output:   m.Output,
			IsCode:   m.IsCode,
		},
		CreatedAt: m.CreatedAt,
	}
}
