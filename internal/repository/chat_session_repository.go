package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"pathfinder/internal/model"
)

type ChatSessionRepository struct {
	db *gorm.DB
}

func NewChatSessionRepository(db *gorm.DB) *ChatSessionRepository {
	return &ChatSessionRepository{db: db}
}

func (r *ChatSessionRepository) Create(session *model.ChatSession) error {
	if err := r.db.Create(session).Error; err != nil {
		return fmt.Errorf("create chat session failed: %w", err)
	}
	return nil
}

func (r *ChatSessionRepository) GetByRoadmapAndUser(roadmapID, userID uint) (*model.ChatSession, error) {
	var session model.ChatSession
	err := r.db.Where("roadmap_id = ? AND user_id = ?", roadmapID, userID).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get chat session failed: %w", err)
	}
	return &session, nil
}

// ListIDsByRoadmapID returns session ids for a roadmap, for cascade delete.
func (r *ChatSessionRepository) ListIDsByRoadmapID(roadmapID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&model.ChatSession{}).Where("roadmap_id = ?", roadmapID).Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list chat session ids failed: %w", err)
	}
	return ids, nil
}

func (r *ChatSessionRepository) DeleteByRoadmapID(roadmapID uint) error {
	if err := r.db.Where("roadmap_id = ?", roadmapID).Delete(&model.ChatSession{}).Error; err != nil {
		return fmt.Errorf("delete chat sessions by roadmap failed: %w", err)
	}
	return nil
}
