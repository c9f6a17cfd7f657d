package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"pathfinder/internal/model"
)

type RoadmapRepository struct {
	db *gorm.DB
}

// LeaderboardEntry is one projected row of the leaderboard aggregation.
type LeaderboardEntry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

func NewRoadmapRepository(db *gorm.DB) *RoadmapRepository {
	return &RoadmapRepository{db: db}
}

func (r *RoadmapRepository) Create(roadmap *model.Roadmap) error {
	if err := r.db.Create(roadmap).Error; err != nil {
		return fmt.Errorf("create roadmap failed: %w", err)
	}
	return nil
}

func (r *RoadmapRepository) GetByID(id uint) (*model.Roadmap, error) {
	var roadmap model.Roadmap
	if err := r.db.First(&roadmap, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get roadmap failed: %w", err)
	}
	return &roadmap, nil
}

func (r *RoadmapRepository) ListByUserID(userID uint) ([]model.Roadmap, error) {
	var roadmaps []model.Roadmap
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&roadmaps).Error; err != nil {
		return nil, fmt.Errorf("list roadmaps failed: %w", err)
	}
	return roadmaps, nil
}

func (r *RoadmapRepository) Save(roadmap *model.Roadmap) error {
	if err := r.db.Save(roadmap).Error; err != nil {
		return fmt.Errorf("save roadmap failed: %w", err)
	}
	return nil
}

func (r *RoadmapRepository) DeleteByID(id uint) error {
	if err := r.db.Delete(&model.Roadmap{}, id).Error; err != nil {
		return fmt.Errorf("delete roadmap failed: %w", err)
	}
	return nil
}

// GetShared looks up a roadmap strictly by shareable id and public flag.
// Private roadmaps are invisible on this path even with a leaked id.
func (r *RoadmapRepository) GetShared(shareableID string) (*model.Roadmap, error) {
	var roadmap model.Roadmap
	err := r.db.Where("shareable_id = ? AND is_public = ?", shareableID, true).First(&roadmap).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shared roadmap failed: %w", err)
	}
	return &roadmap, nil
}

// LeaderboardTop sums completed-concept counts per owning user across all
// roadmaps and returns the highest scorers with display names. Ties keep
// store order.
func (r *RoadmapRepository) LeaderboardTop(limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	var entries []LeaderboardEntry
	err := r.db.Model(&model.Roadmap{}).
		Select("users.name AS name, SUM(roadmaps.completed_count) AS score").
		Joins("JOIN users ON users.id = roadmaps.user_id").
		Group("users.id, users.name").
		Order("score DESC").
		Limit(limit).
		Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("leaderboard aggregation failed: %w", err)
	}
	return entries, nil
}
