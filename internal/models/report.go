package models

import (
	"time"

	"gorm.io/datatypes"
)

// SkillScore is one scored dimension of a report.
type SkillScore struct {
	Skill    string  `json:"skill"`
	Score    float64 `json:"score"`
	Comments string  `json:"comments,omitempty"`
}

// Report is the scored feedback for a finished session. When the scoring
// backend is unreachable the service synthesizes one locally and marks it
// Approximate; clients must label such reports as estimates.
type Report struct {
	ID           uint           `json:"-" gorm:"primaryKey"`
	SessionID    string         `json:"session_id" gorm:"not null;size:36;uniqueIndex"`
	OverallScore float64        `json:"overall_score"`
	Skills       datatypes.JSON `json:"skills" gorm:"type:jsonb"`
	Summary      string         `json:"summary" gorm:"type:text"`
	Approximate  bool           `json:"approximate" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Report) TableName() string {
	return "reports"
}
