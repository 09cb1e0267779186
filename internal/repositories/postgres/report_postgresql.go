package postgres

import (
	"context"

	"github.com/mockmate/interview-service/internal/models"
	"github.com/mockmate/interview-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReportPostgreSQL struct {
	db *gorm.DB
}

func NewReportPostgreSQL(db *gorm.DB) repositories.ReportRepository {
	return &ReportPostgreSQL{db: db}
}

// Upsert keeps one report per session; a real report from the scoring backend
// replaces an earlier approximate one.
func (r *ReportPostgreSQL) Upsert(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"overall_score", "skills", "summary", "approximate", "updated_at",
			}),
		}).
		Create(report).Error
}

func (r *ReportPostgreSQL) GetBySession(ctx context.Context, sessionID string) (*models.Report, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).First(&report, "session_id = ?", sessionID).Error; err != nil {
		return nil, err
	}
	return &report, nil
}
