package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"pathfinder/internal/model"
)

type QuestionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// CreateWithAnswer persists a question and its seed AI answer atomically.
// A crash cannot leave a question without its initial answer.
func (r *QuestionRepository) CreateWithAnswer(question *model.Question, answer *model.Answer) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(question).Error; err != nil {
			return err
		}
		answer.QuestionID = question.ID
		return tx.Create(answer).Error
	})
	if err != nil {
		return fmt.Errorf("create question with answer failed: %w", err)
	}
	return nil
}

func (r *QuestionRepository) GetByID(id uint) (*model.Question, error) {
	var question model.Question
	if err := r.db.First(&question, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get question failed: %w", err)
	}
	return &question, nil
}

func (r *QuestionRepository) List() ([]model.Question, error) {
	var questions []model.Question
	if err := r.db.Order("created_at DESC").Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("list questions failed: %w", err)
	}
	return questions, nil
}
