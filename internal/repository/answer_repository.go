package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"pathfinder/internal/model"
)

type AnswerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) *AnswerRepository {
	return &AnswerRepository{db: db}
}

func (r *AnswerRepository) Create(answer *model.Answer) error {
	if err := r.db.Create(answer).Error; err != nil {
		return fmt.Errorf("create answer failed: %w", err)
	}
	return nil
}

func (r *AnswerRepository) GetByID(id uint) (*model.Answer, error) {
	var answer model.Answer
	if err := r.db.First(&answer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get answer failed: %w", err)
	}
	return &answer, nil
}

func (r *AnswerRepository) ListByQuestionID(questionID uint) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.db.Where("question_id = ?", questionID).Order("created_at ASC, id ASC").Find(&answers).Error
	if err != nil {
		return nil, fmt.Errorf("list answers failed: %w", err)
	}
	return answers, nil
}

func (r *AnswerRepository) Save(answer *model.Answer) error {
	if err := r.db.Save(answer).Error; err != nil {
		return fmt.Errorf("save answer failed: %w", err)
	}
	return nil
}

// CountByQuestionIDs returns answer counts keyed by question id.
func (r *AnswerRepository) CountByQuestionIDs(questionIDs []uint) (map[uint]int, error) {
	if len(questionIDs) == 0 {
		return map[uint]int{}, nil
	}

	type row struct {
		QuestionID uint
		Count      int
	}
	var rows []row
	err := r.db.Model(&model.Answer{}).
		Select("question_id, COUNT(*) AS count").
		Where("question_id IN ?", questionIDs).
		Group("question_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count answers failed: %w", err)
	}

	counts := make(map[uint]int, len(rows))
	for _, r := range rows {
		counts[r.QuestionID] = r.Count
	}
	return counts, nil
}
