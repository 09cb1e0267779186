package postgres

import (
	"context"

	"github.com/mockmate/interview-service/internal/models"
	"github.com/mockmate/interview-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AnswerPostgreSQL struct {
	db *gorm.DB
}

func NewAnswerPostgreSQL(db *gorm.DB) repositories.AnswerRepository {
	return &AnswerPostgreSQL{db: db}
}

// Upsert inserts or replaces the record for (session, question). The conflict
// target mirrors the ledger's append-or-replace semantics.
func (a *AnswerPostgreSQL) Upsert(ctx context.Context, record *models.AnswerRecord) error {
	return a.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "session_id"}, {Name: "question_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"user_answer", "follow_up_answer", "updated_at",
			}),
		}).
		Create(record).Error
}

func (a *AnswerPostgreSQL) UpsertBatch(ctx context.Context, records []models.AnswerRecord) error {
	if len(records) == 0 {
		return nil
	}
	return a.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "session_id"}, {Name: "question_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"user_answer", "follow_up_answer", "updated_at",
			}),
		}).
		Create(&records).Error
}

func (a *AnswerPostgreSQL) GetBySession(ctx context.Context, sessionID string) ([]models.AnswerRecord, error) {
	var records []models.AnswerRecord
	if err := a.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (a *AnswerPostgreSQL) CountBySession(ctx context.Context, sessionID string) (int64, error) {
	var count int64
	err := a.db.WithContext(ctx).
		Model(&models.AnswerRecord{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	return count, err
}
