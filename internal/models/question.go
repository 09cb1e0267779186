package models

import "time"

type QuestionType string

const (
	QuestionStandard  QuestionType = "standard"
	QuestionFollowUp  QuestionType = "follow_up"
	QuestionChallenge QuestionType = "challenge"
	QuestionDeepDive  QuestionType = "deep_dive"
	QuestionReference QuestionType = "reference"
)

// Question is one planned interview prompt. Questions are immutable once the
// planner has issued them; the active question is selected by Position.
type Question struct {
	ID          string       `json:"id" gorm:"primaryKey;size:36"`
	SessionID   string       `json:"session_id" gorm:"not null;size:36;index"`
	Prompt      string       `json:"prompt" gorm:"not null;type:text" validate:"required"`
	Topic       string       `json:"topic" gorm:"size:100"`
	Type        QuestionType `json:"type" gorm:"not null;size:20" validate:"required,question_type"`
	Interviewer string       `json:"interviewer" gorm:"size:100"`
	IdealAnswer *string      `json:"ideal_answer,omitempty" gorm:"type:text"`

	// Zero-based order within the session plan.
	Position int `json:"position" gorm:"not null"`

	AudioURL *string `json:"audio_url,omitempty" gorm:"size:500"`

	CreatedAt time.Time `json:"created_at"`
}

func (Question) TableName() string {
	return "questions"
}

// InterviewPlan is what the planner returns: session metadata plus the ordered
// question list.
type InterviewPlan struct {
	Meta      SessionMeta `json:"meta"`
	Questions []Question  `json:"questions"`
}
