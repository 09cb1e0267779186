package models

import "time"

// AnswerRecord is one completed turn. Records are keyed by question id with
// append-or-replace semantics: a question answered twice keeps the latest.
type AnswerRecord struct {
	ID          uint         `json:"-" gorm:"primaryKey"`
	SessionID   string       `json:"-" gorm:"not null;size:36;index:idx_answers_session_question,unique,priority:1"`
	QuestionID  string       `json:"id" gorm:"not null;size:36;index:idx_answers_session_question,unique,priority:2"`
	Prompt      string       `json:"prompt" gorm:"not null;type:text"`
	Interviewer string       `json:"interviewer" gorm:"size:100"`
	Type        QuestionType `json:"type" gorm:"size:20"`

	// UserAnswer is the normalized transcript. Empty string means the user
	// gave no usable answer; a transcription failure stores the sentinel text
	// instead, so the two cases stay distinguishable.
	UserAnswer  string  `json:"userAnswer" gorm:"type:text"`
	IdealAnswer *string `json:"idealAnswer,omitempty" gorm:"type:text"`

	// Elaboration captured during a follow-up sub-turn, if one was issued.
	FollowUpAnswer *string `json:"followUpAnswer,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (AnswerRecord) TableName() string {
	return "answer_records"
}
