package postgres

import (
	"context"

	"github.com/mockmate/interview-service/internal/repositories"
	"gorm.io/gorm"
)

type gormRepository struct {
	db *gorm.DB

	session  repositories.SessionRepository
	question repositories.QuestionRepository
	answer   repositories.AnswerRepository
	resume   repositories.ResumeRepository
	report   repositories.ReportRepository
}

// NewRepository builds the GORM-backed repository aggregate.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &gormRepository{
		db:       db,
		session:  NewSessionPostgreSQL(db),
		question: NewQuestionPostgreSQL(db),
		answer:   NewAnswerPostgreSQL(db),
		resume:   NewResumePostgreSQL(db),
		report:   NewReportPostgreSQL(db),
	}
}

func (r *gormRepository) Session() repositories.SessionRepository   { return r.session }
func (r *gormRepository) Question() repositories.QuestionRepository { return r.question }
func (r *gormRepository) Answer() repositories.AnswerRepository     { return r.answer }
func (r *gormRepository) Resume() repositories.ResumeRepository     { return r.resume }
func (r *gormRepository) Report() repositories.ReportRepository     { return r.report }

// WithTransaction runs fn against a repository bound to a single database
// transaction, rolling back on error.
func (r *gormRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

func (r *gormRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *gormRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
