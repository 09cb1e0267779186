package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/mockmate/interview-service/internal/models"
	"gorm.io/gorm"
)

// Repository aggregates all persistence concerns behind one handle.
type Repository interface {
	Session() SessionRepository
	Question() QuestionRepository
	Answer() AnswerRepository
	Resume() ResumeRepository
	Report() ReportRepository

	WithTransaction(ctx context.Context, fn func(Repository) error) error
	Ping(ctx context.Context) error
	Close() error
}

// SessionRepository handles interview session rows.
type SessionRepository interface {
	Create(ctx context.Context, session *models.InterviewSession) error
	GetByID(ctx context.Context, id string) (*models.InterviewSession, error)
	GetByIDWithDetails(ctx context.Context, id string) (*models.InterviewSession, error)
	Update(ctx context.Context, session *models.InterviewSession) error
	UpdateStatus(ctx context.Context, id string, status models.SessionStatus) error
	Complete(ctx context.Context, id string, completedAt time.Time, endReason string) error
	List(ctx context.Context, filters SessionFilters) ([]*models.InterviewSession, int64, error)
	GetByUser(ctx context.Context, userID string, filters SessionFilters) ([]*models.InterviewSession, int64, error)
}

// QuestionRepository handles planned questions. Questions are immutable once
// planned; there is no update operation.
type QuestionRepository interface {
	CreateBatch(ctx context.Context, questions []models.Question) error
	GetBySession(ctx context.Context, sessionID string) ([]models.Question, error)
}

// AnswerRepository handles per-question answer records. Upsert keeps the
// latest record per (session, question).
type AnswerRepository interface {
	Upsert(ctx context.Context, record *models.AnswerRecord) error
	UpsertBatch(ctx context.Context, records []models.AnswerRecord) error
	GetBySession(ctx context.Context, sessionID string) ([]models.AnswerRecord, error)
	CountBySession(ctx context.Context, sessionID string) (int64, error)
}

// ResumeRepository handles parsed résumé profiles.
type ResumeRepository interface {
	Create(ctx context.Context, profile *models.ResumeProfile) error
	GetByID(ctx context.Context, id string) (*models.ResumeProfile, error)
	GetLatestByUser(ctx context.Context, userID string) (*models.ResumeProfile, error)
}

// ReportRepository handles scored session reports.
type ReportRepository interface {
	Upsert(ctx context.Context, report *models.Report) error
	GetBySession(ctx context.Context, sessionID string) (*models.Report, error)
}

// ===== SHARED FILTER STRUCTS =====

type SessionFilters struct {
	Status    *models.SessionStatus `json:"status"`
	UserID    *string               `json:"user_id"`
	DateFrom  *time.Time            `json:"date_from"`
	DateTo    *time.Time            `json:"date_to"`
	Limit     int                   `json:"limit"`
	Offset    int                   `json:"offset"`
	SortBy    string                `json:"sort_by"`    // "created_at", "started_at"
	SortOrder string                `json:"sort_order"` // "asc", "desc"
}

// IsNotFoundError reports whether err is the database's missing-row error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
