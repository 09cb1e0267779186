package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/mockmate/interview-service/internal/models"
)

// EventType represents different types of session lifecycle events
type EventType string

const (
	// Session events
	EventSessionStarted   EventType = "session.started"
	EventSessionCompleted EventType = "session.completed"
	EventSessionAbandoned EventType = "session.abandoned"

	// Turn events
	EventTurnCompleted  EventType = "turn.completed"
	EventFollowUpIssued EventType = "turn.follow_up_issued"

	// Report events
	EventReportReady EventType = "report.ready"
)

// SessionEvent is the base event structure for all session lifecycle events
type SessionEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Session event payloads

type SessionStartedEvent struct {
	SessionID     string                 `json:"session_id"`
	UserID        string                 `json:"user_id"`
	Role          string                 `json:"role"`
	Difficulty    models.DifficultyLevel `json:"difficulty"`
	QuestionCount int                    `json:"question_count"`
	StartedAt     time.Time              `json:"started_at"`
}

type SessionCompletedEvent struct {
	SessionID     string    `json:"session_id"`
	UserID        string    `json:"user_id"`
	CompletedAt   time.Time `json:"completed_at"`
	AnsweredCount int       `json:"answered_count"`
	EndReason     string    `json:"end_reason"`
}

type TurnCompletedEvent struct {
	SessionID    string              `json:"session_id"`
	QuestionID   string              `json:"question_id"`
	QuestionType models.QuestionType `json:"question_type"`
	Position     int                 `json:"position"`
	AnswerEmpty  bool                `json:"answer_empty"`
	CompletedAt  time.Time           `json:"completed_at"`
}

type FollowUpIssuedEvent struct {
	SessionID  string    `json:"session_id"`
	QuestionID string    `json:"question_id"`
	IssuedAt   time.Time `json:"issued_at"`
}

type ReportReadyEvent struct {
	SessionID    string    `json:"session_id"`
	UserID       string    `json:"user_id"`
	OverallScore float64   `json:"overall_score"`
	Approximate  bool      `json:"approximate"`
	ReadyAt      time.Time `json:"ready_at"`
}

// Event factory functions

func NewSessionStartedEvent(s *models.InterviewSession) *SessionEvent {
	return newEvent(EventSessionStarted, SessionStartedEvent{
		SessionID:     s.ID,
		UserID:        s.UserID,
		Role:          s.Role,
		Difficulty:    s.Difficulty,
		QuestionCount: s.QuestionCount,
		StartedAt:     s.StartedAt,
	})
}

func NewSessionCompletedEvent(s *models.InterviewSession, answeredCount int, endReason string) *SessionEvent {
	return newEvent(EventSessionCompleted, SessionCompletedEvent{
		SessionID:     s.ID,
		UserID:        s.UserID,
		CompletedAt:   time.Now(),
		AnsweredCount: answeredCount,
		EndReason:     endReason,
	})
}

func NewTurnCompletedEvent(sessionID string, q models.Question, answerEmpty bool) *SessionEvent {
	return newEvent(EventTurnCompleted, TurnCompletedEvent{
		SessionID:    sessionID,
		QuestionID:   q.ID,
		QuestionType: q.Type,
		Position:     q.Position,
		AnswerEmpty:  answerEmpty,
		CompletedAt:  time.Now(),
	})
}

func NewFollowUpIssuedEvent(sessionID, questionID string) *SessionEvent {
	return newEvent(EventFollowUpIssued, FollowUpIssuedEvent{
		SessionID:  sessionID,
		QuestionID: questionID,
		IssuedAt:   time.Now(),
	})
}

func NewReportReadyEvent(report *models.Report, userID string) *SessionEvent {
	return newEvent(EventReportReady, ReportReadyEvent{
		SessionID:    report.SessionID,
		UserID:       userID,
		OverallScore: report.OverallScore,
		Approximate:  report.Approximate,
		ReadyAt:      time.Now(),
	})
}

func newEvent(eventType EventType, data interface{}) *SessionEvent {
	return &SessionEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    "interview-service",
		Version:   "1.0",
		Data:      data,
	}
}
