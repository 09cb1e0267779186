package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ResumeProfile is the structured output of the external résumé parser for one
// uploaded file, optionally matched against a pasted job description.
type ResumeProfile struct {
	ID       string `json:"id" gorm:"primaryKey;size:36"`
	UserID   string `json:"user_id" gorm:"not null;size:255;index"`
	FileName string `json:"file_name" gorm:"size:255"`

	// Skills is the parser's skill/score map, stored as-is.
	Skills         datatypes.JSON `json:"skills" gorm:"type:jsonb"`
	Summary        string         `json:"summary" gorm:"type:text"`
	JobDescription *string        `json:"job_description,omitempty" gorm:"type:text"`
	MatchScore     *float64       `json:"match_score,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (ResumeProfile) TableName() string {
	return "resume_profiles"
}
