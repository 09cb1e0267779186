package models

import (
	"time"

	"gorm.io/gorm"
)

type SessionStatus string

const (
	SessionStatusCreated    SessionStatus = "Created"
	SessionStatusInProgress SessionStatus = "InProgress"
	SessionStatusCompleted  SessionStatus = "Completed"
	SessionStatusAbandoned  SessionStatus = "Abandoned"
)

type DifficultyLevel string

const (
	DifficultyJunior DifficultyLevel = "junior"
	DifficultyMiddle DifficultyLevel = "middle"
	DifficultySenior DifficultyLevel = "senior"
)

// InterviewSession is one practice interview from plan to report.
type InterviewSession struct {
	ID            string          `json:"id" gorm:"primaryKey;size:36"`
	UserID        string          `json:"user_id" gorm:"not null;size:255;index"`
	Role          string          `json:"role" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Difficulty    DifficultyLevel `json:"difficulty" gorm:"not null;size:20" validate:"required,difficulty_level"`
	QuestionCount int             `json:"question_count" gorm:"not null" validate:"required,min=1,max=20"`
	Status        SessionStatus   `json:"status" gorm:"default:Created;index"`

	// Think-time applied before each question, seconds.
	ThinkTimeSeconds int `json:"think_time_seconds" gorm:"default:5"`

	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	EndReason   *string    `json:"end_reason" gorm:"size:50"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Questions []Question     `json:"questions" gorm:"foreignKey:SessionID"`
	Answers   []AnswerRecord `json:"answers" gorm:"foreignKey:SessionID"`
	Report    *Report        `json:"report,omitempty" gorm:"foreignKey:SessionID"`

	// Computed fields (not stored)
	AnsweredCount int `json:"answered_count" gorm:"-"`
}

func (InterviewSession) TableName() string {
	return "interview_sessions"
}

// SessionMeta is the immutable part of a session handed back to clients
// alongside the question plan.
type SessionMeta struct {
	SessionID     string          `json:"session_id"`
	Role          string          `json:"role"`
	Difficulty    DifficultyLevel `json:"difficulty"`
	QuestionCount int             `json:"question_count"`
}

func (s *InterviewSession) Meta() SessionMeta {
	return SessionMeta{
		SessionID:     s.ID,
		Role:          s.Role,
		Difficulty:    s.Difficulty,
		QuestionCount: s.QuestionCount,
	}
}

// AudioSegment is one playable prompt segment. Segments queue FIFO and play
// one at a time.
type AudioSegment struct {
	URL   string `json:"url"`
	Label string `json:"label"`
}
