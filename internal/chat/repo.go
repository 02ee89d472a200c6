package chat

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// GetChatByID returns nil, nil when the chat does not exist.
func (r *Repo) GetChatByID(ctx context.Context, id string) (*Chat, error) {
	var c Chat
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *Repo) SaveChat(ctx context.Context, c *Chat) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// GetMessagesByChatID returns the full history oldest first.
func (r *Repo) GetMessagesByChatID(ctx context.Context, chatID string) ([]Message, error) {
	var msgs []Message
	if err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

// SaveMessages persists a batch in one transaction: all rows land or none.
func (r *Repo) SaveMessages(ctx context.Context, msgs []Message) error {
	if len(msgs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range msgs {
			if err := tx.Create(&msgs[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteChatByID removes the chat with its messages and streams and
// returns the deleted record.
func (r *Repo) DeleteChatByID(ctx context.Context, id string) (*Chat, error) {
	var c Chat
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&c, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("chat_id = ?", id).Delete(&Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("chat_id = ?", id).Delete(&Stream{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Chat{}, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) CreateStreamID(ctx context.Context, streamID, chatID string) error {
	return r.db.WithContext(ctx).Create(&Stream{ID: streamID, ChatID: chatID}).Error
}

// ListChats returns the user's chats, newest first.
func (r *Repo) ListChats(ctx context.Context, userID uint64, limit int) ([]Chat, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var chats []Chat
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&chats).Error; err != nil {
		return nil, err
	}
	return chats, nil
}

func (r *Repo) InsertTurnEvent(ctx context.Context, ev *TurnEvent) error {
	return r.db.WithContext(ctx).Create(ev).Error
}
