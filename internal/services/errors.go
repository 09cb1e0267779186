package services

import (
	"errors"
	"fmt"

	apperrors "github.com/mockmate/interview-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrForbidden        = errors.New("forbidden - insufficient permissions")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrBadRequest       = errors.New("bad request")
	ErrConflict         = errors.New("resource conflict")

	// Session specific errors
	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionAccessDenied = errors.New("access denied to session")
	ErrSessionNotActive    = errors.New("session is not active")
	ErrSessionAlreadyEnded = errors.New("session already ended")
	ErrSessionNotLoaded    = errors.New("session state not loaded on this instance")
	ErrPlanEmpty           = errors.New("interview plan has no questions")
	ErrPlannerUnavailable  = errors.New("question planner unavailable")

	// Turn specific errors
	ErrTurnInvalidEvent   = errors.New("event not valid in current turn state")
	ErrTurnActionPending  = errors.New("another action is already pending for this turn")
	ErrMicrophoneDenied   = errors.New("microphone permission denied")
	ErrRepeatLimitReached = errors.New("prompt repeat limit reached")

	// Resume specific errors
	ErrResumeNotFound    = errors.New("resume profile not found")
	ErrResumeParseFailed = errors.New("resume could not be parsed")
	ErrResumeTooLarge    = errors.New("resume file exceeds size limit")

	// Report specific errors
	ErrReportNotFound    = errors.New("report not found")
	ErrReportNotReady    = errors.New("report is not ready yet")
	ErrScorerUnreachable = errors.New("scoring service unreachable")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type BusinessRuleError struct {
	Rule    string                 `json:"rule"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (bre *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation (%s): %s", bre.Rule, bre.Message)
}

type PermissionError struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	Action    string `json:"action"`
	Reason    string `json:"reason"`
}

func (pe *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s session %s - %s",
		pe.UserID, pe.Action, pe.SessionID, pe.Reason)
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewBusinessRuleError(rule, message string, context map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    rule,
		Message: message,
		Context: context,
	}
}

func NewPermissionError(userID, sessionID, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:    userID,
		SessionID: sessionID,
		Action:    action,
		Reason:    reason,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrResumeNotFound) ||
		errors.Is(err, ErrReportNotFound)
}

// IsUnauthorized checks if error represents an "unauthorized" condition
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrSessionAccessDenied)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsBusinessRule checks if error represents a business rule violation
func IsBusinessRule(err error) bool {
	var bre *BusinessRuleError
	return errors.As(err, &bre)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrSessionAlreadyEnded) ||
		errors.Is(err, ErrTurnActionPending)
}
