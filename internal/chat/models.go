package chat

import (
	"time"

	"github.com/babelchat/api/internal/models"
)

const (
	VisibilityPrivate = "private"
	VisibilityPublic  = "public"
)

type Chat struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	UserID     uint64    `gorm:"index;not null" json:"userId"`
	Title      string    `gorm:"type:varchar(255);not null" json:"title"`
	Visibility string    `gorm:"type:varchar(16);not null;default:private" json:"visibility"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Chat) TableName() string { return "chats" }

// Message is the persisted record. Parts always hold the user's original
// language: translated intermediates are never written back.
type Message struct {
	ID          string              `gorm:"primaryKey;size:36" json:"id"`
	ChatID      string              `gorm:"size:36;index;not null" json:"chatId"`
	Role        string              `gorm:"type:varchar(16);not null" json:"role"`
	Parts       []models.Part       `gorm:"serializer:json;type:text" json:"parts"`
	Attachments []models.Attachment `gorm:"serializer:json;type:text" json:"attachments"`
	CreatedAt   time.Time           `json:"createdAt"`
}

func (Message) TableName() string { return "chat_messages" }

// Stream records one delivery stream issued for a chat turn.
type Stream struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	ChatID    string    `gorm:"size:36;index;not null" json:"chatId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Stream) TableName() string { return "chat_streams" }

// TurnEvent is the analytics record the worker writes for each completed
// turn it consumes off the queue. It carries no message content and no
// credential.
type TurnEvent struct {
	ID             string    `gorm:"primaryKey;size:26" json:"id"`
	ChatID         string    `gorm:"size:36;index;not null" json:"chatId"`
	UserID         uint64    `gorm:"index;not null" json:"userId"`
	InputLanguage  string    `gorm:"type:varchar(8);not null" json:"inputLanguage"`
	SearchLanguage string    `gorm:"type:varchar(8);not null" json:"searchLanguage"`
	Translated     bool      `gorm:"not null" json:"translated"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (TurnEvent) TableName() string { return "chat_turn_events" }

// UIMessage converts the persisted record to the client/provider shape.
func (m Message) UIMessage() models.UIMessage {
	return models.UIMessage{
		ID:          m.ID,
		ChatID:      m.ChatID,
		Role:        m.Role,
		Parts:       m.Parts,
		Attachments: m.Attachments,
		CreatedAt:   m.CreatedAt,
	}
}
