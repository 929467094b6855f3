package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"aura-server/internal/model"
)

// MessageRepository handles all database operations on messages.
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a MessageRepository.
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts a new message. The ID field is filled in on return.
func (r *MessageRepository) Create(ctx context.Context, message *model.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

// GetByConversationID returns all messages of a conversation in creation
// order: timestamp ascending, id ascending as tie-break.
func (r *MessageRepository) GetByConversationID(ctx context.Context, conversationID int64) ([]model.Message, error) {
	var messages []model.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}

// GetLatestByConversationID returns the newest limit messages of a
// conversation, reordered oldest-to-newest for prompt assembly.
func (r *MessageRepository) GetLatestByConversationID(ctx context.Context, conversationID int64, limit int) ([]model.Message, error) {
	var messages []model.Message

	// Inner query picks the newest N, outer query restores chronological
	// order.
	subQuery := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC, id DESC").
		Limit(limit)

	err := r.db.WithContext(ctx).
		Table("(?) as t", subQuery).
		Order("created_at ASC, id ASC").
		Find(&messages).Error

	return messages, err
}

// GetLastByConversationID returns the single most recent message of a
// conversation, or nil when the conversation is empty.
func (r *MessageRepository) GetLastByConversationID(ctx context.Context, conversationID int64) (*model.Message, error) {
	var message model.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC, id DESC").
		First(&message).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &message, nil
}

// GetFirstUserMessage returns the earliest user-authored message of a
// conversation, or nil when there is none. Used for title derivation.
func (r *MessageRepository) GetFirstUserMessage(ctx context.Context, conversationID int64) (*model.Message, error) {
	var message model.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ? AND sender = ?", conversationID, model.MessageSenderUser).
		Order("created_at ASC, id ASC").
		First(&message).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &message, nil
}

// CountByConversationID returns the number of messages in a conversation.
func (r *MessageRepository) CountByConversationID(ctx context.Context, conversationID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("conversation_id = ?", conversationID).
		Count(&count).Error
	return count, err
}
