package postgres

import (
	"context"
	"time"

	"github.com/mockmate/interview-service/internal/models"
	"github.com/mockmate/interview-service/internal/repositories"
	"gorm.io/gorm"
)

type SessionPostgreSQL struct {
	db *gorm.DB
}

func NewSessionPostgreSQL(db *gorm.DB) repositories.SessionRepository {
	return &SessionPostgreSQL{db: db}
}

func (s *SessionPostgreSQL) Create(ctx context.Context, session *models.InterviewSession) error {
	return s.db.WithContext(ctx).Create(session).Error
}

func (s *SessionPostgreSQL) GetByID(ctx context.Context, id string) (*models.InterviewSession, error) {
	var session models.InterviewSession
	if err := s.db.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SessionPostgreSQL) GetByIDWithDetails(ctx context.Context, id string) (*models.InterviewSession, error) {
	var session models.InterviewSession
	if err := s.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.position ASC")
		}).
		Preload("Answers").
		Preload("Report").
		First(&session, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SessionPostgreSQL) Update(ctx context.Context, session *models.InterviewSession) error {
	return s.db.WithContext(ctx).Save(session).Error
}

func (s *SessionPostgreSQL) UpdateStatus(ctx context.Context, id string, status models.SessionStatus) error {
	return s.db.WithContext(ctx).
		Model(&models.InterviewSession{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (s *SessionPostgreSQL) Complete(ctx context.Context, id string, completedAt time.Time, endReason string) error {
	return s.db.WithContext(ctx).
		Model(&models.InterviewSession{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       models.SessionStatusCompleted,
			"completed_at": completedAt,
			"end_reason":   endReason,
		}).Error
}

func (s *SessionPostgreSQL) List(ctx context.Context, filters repositories.SessionFilters) ([]*models.InterviewSession, int64, error) {
	var sessions []*models.InterviewSession
	var total int64

	query := s.db.WithContext(ctx).Model(&models.InterviewSession{})
	query = s.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = s.applyPaginationAndSort(query, filters)
	if err := query.Find(&sessions).Error; err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

func (s *SessionPostgreSQL) GetByUser(ctx context.Context, userID string, filters repositories.SessionFilters) ([]*models.InterviewSession, int64, error) {
	filters.UserID = &userID
	return s.List(ctx, filters)
}

func (s *SessionPostgreSQL) applyFilters(query *gorm.DB, filters repositories.SessionFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if filters.DateFrom != nil {
		query = query.Where("started_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("started_at <= ?", *filters.DateTo)
	}
	return query
}

func (s *SessionPostgreSQL) applyPaginationAndSort(query *gorm.DB, filters repositories.SessionFilters) *gorm.DB {
	sortBy := filters.SortBy
	switch sortBy {
	case "created_at", "started_at":
	default:
		sortBy = "created_at"
	}
	order := "DESC"
	if filters.SortOrder == "asc" {
		order = "ASC"
	}
	query = query.Order(sortBy + " " + order)

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	return query
}
