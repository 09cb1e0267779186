package postgres

import (
	"context"

	"github.com/mockmate/interview-service/internal/models"
	"github.com/mockmate/interview-service/internal/repositories"
	"gorm.io/gorm"
)

type QuestionPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{db: db}
}

func (q *QuestionPostgreSQL) CreateBatch(ctx context.Context, questions []models.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return q.db.WithContext(ctx).Create(&questions).Error
}

func (q *QuestionPostgreSQL) GetBySession(ctx context.Context, sessionID string) ([]models.Question, error) {
	var questions []models.Question
	if err := q.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("position ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}
