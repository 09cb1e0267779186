package postgres

import (
	"context"

	"github.com/mockmate/interview-service/internal/models"
	"github.com/mockmate/interview-service/internal/repositories"
	"gorm.io/gorm"
)

type ResumePostgreSQL struct {
	db *gorm.DB
}

func NewResumePostgreSQL(db *gorm.DB) repositories.ResumeRepository {
	return &ResumePostgreSQL{db: db}
}

func (r *ResumePostgreSQL) Create(ctx context.Context, profile *models.ResumeProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *ResumePostgreSQL) GetByID(ctx context.Context, id string) (*models.ResumeProfile, error) {
	var profile models.ResumeProfile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ResumePostgreSQL) GetLatestByUser(ctx context.Context, userID string) (*models.ResumeProfile, error) {
	var profile models.ResumeProfile
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}
