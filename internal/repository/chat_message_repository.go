package repository

import (
	"fmt"

	"gorm.io/gorm"

	"pathfinder/internal/model"
)

type ChatMessageRepository struct {
	db *gorm.DB
}

func NewChatMessageRepository(db *gorm.DB) *ChatMessageRepository {
	return &ChatMessageRepository{db: db}
}

func (r *ChatMessageRepository) Create(message *model.ChatMessage) error {
	if err := r.db.Create(message).Error; err != nil {
		return fmt.Errorf("create chat message failed: %w", err)
	}
	return nil
}

// ListBySessionID returns the session's messages oldest first. A positive
// limit caps the result; zero or negative means the whole history.
func (r *ChatMessageRepository) ListBySessionID(sessionID uint, limit int) ([]model.ChatMessage, error) {
	query := r.db.Where("session_id = ?", sessionID).Order("created_at ASC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var messages []model.ChatMessage
	if err := query.Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("list chat messages failed: %w", err)
	}
	return messages, nil
}

// ListRecentBySessionID returns the newest limit messages in chronological
// order, for the mentor prompt context window.
func (r *ChatMessageRepository) ListRecentBySessionID(sessionID uint, limit int) ([]model.ChatMessage, error) {
	if limit <= 0 {
		limit = 20
	}

	var messages []model.ChatMessage
	err := r.db.Where("session_id = ?", sessionID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("list recent chat messages failed: %w", err)
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *ChatMessageRepository) DeleteBySessionIDs(sessionIDs []uint) error {
	if len(sessionIDs) == 0 {
		return nil
	}
	if err := r.db.Where("session_id IN ?", sessionIDs).Delete(&model.ChatMessage{}).Error; err != nil {
		return fmt.Errorf("delete chat messages by sessions failed: %w", err)
	}
	return nil
}
