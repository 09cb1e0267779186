package utils

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mockmate/interview-service/internal/models"
)

// Validator wraps a validator.Validate instance with the custom
// interview rules already registered.
type Validator struct {
	structValidator *validator.Validate
}

// NewValidator creates a validator with all custom rules registered
func NewValidator() *Validator {
	v := validator.New()
	RegisterCustomValidators(v)
	return &Validator{structValidator: v}
}

// Validate validates struct tags on s
func (v *Validator) Validate(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Var validates a single variable against a tag expression
func (v *Validator) Var(field interface{}, tag string) error {
	return v.structValidator.Var(field, tag)
}

// Custom validation functions

func ValidateQuestionType(fl validator.FieldLevel) bool {
	validTypes := []models.QuestionType{
		models.QuestionStandard,
		models.QuestionFollowUp,
		models.QuestionChallenge,
		models.QuestionDeepDive,
		models.QuestionReference,
	}

	value := fl.Field().String()
	for _, validType := range validTypes {
		if string(validType) == value {
			return true
		}
	}
	return false
}

func ValidateDifficultyLevel(fl validator.FieldLevel) bool {
	validLevels := []models.DifficultyLevel{
		models.DifficultyJunior,
		models.DifficultyMiddle,
		models.DifficultySenior,
	}

	value := fl.Field().String()
	for _, validLevel := range validLevels {
		if string(validLevel) == value {
			return true
		}
	}
	return false
}

func ValidateSessionStatus(fl validator.FieldLevel) bool {
	validStatuses := []models.SessionStatus{
		models.SessionStatusCreated,
		models.SessionStatusInProgress,
		models.SessionStatusCompleted,
		models.SessionStatusAbandoned,
	}

	value := fl.Field().String()
	for _, validStatus := range validStatuses {
		if string(validStatus) == value {
			return true
		}
	}
	return false
}

// RegisterCustomValidators registers all custom validators
func RegisterCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_type", ValidateQuestionType)
	validate.RegisterValidation("difficulty_level", ValidateDifficultyLevel)
	validate.RegisterValidation("session_status", ValidateSessionStatus)

	// Register custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}
