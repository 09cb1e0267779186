package questionbank

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/mockmate/interview-service/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed banks.yaml
var defaultBanks []byte

// bankQuestion is one templated prompt in a YAML bank file.
type bankQuestion struct {
	Prompt      string `yaml:"prompt"`
	Topic       string `yaml:"topic"`
	Type        string `yaml:"type"`
	Interviewer string `yaml:"interviewer"`
}

type bank struct {
	Role       string         `yaml:"role"`
	Difficulty string         `yaml:"difficulty"`
	Questions  []bankQuestion `yaml:"questions"`
}

type bankFile struct {
	Banks []bank `yaml:"banks"`
}

// Bank is the built-in question source used when the external planner is
// unreachable. A plan built from it keeps the user moving instead of
// stranding them on a dead start screen.
type Bank struct {
	banks []bank
}

// Load parses the embedded default bank file.
func Load() (*Bank, error) {
	return parse(defaultBanks)
}

// LoadFile parses a bank file from disk, for deployments shipping their own
// question sets.
func LoadFile(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read question bank file: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Bank, error) {
	var file bankFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse question bank: %w", err)
	}
	if len(file.Banks) == 0 {
		return nil, fmt.Errorf("question bank contains no banks")
	}
	return &Bank{banks: file.Banks}, nil
}

// BuildPlan assembles a fallback plan for the given role and difficulty. It
// prefers an exact role match, then a role substring match, then the general
// bank; count is capped at the bank size.
func (b *Bank) BuildPlan(sessionID, role string, difficulty models.DifficultyLevel, count int) (*models.InterviewPlan, error) {
	selected := b.pick(role, string(difficulty))
	if selected == nil {
		return nil, fmt.Errorf("no question bank available for role %q", role)
	}

	if count <= 0 || count > len(selected.Questions) {
		count = len(selected.Questions)
	}

	questions := make([]models.Question, 0, count)
	for i, bq := range selected.Questions[:count] {
		qType := models.QuestionType(bq.Type)
		if qType == "" {
			qType = models.QuestionStandard
		}
		questions = append(questions, models.Question{
			ID:          uuid.NewString(),
			SessionID:   sessionID,
			Prompt:      bq.Prompt,
			Topic:       bq.Topic,
			Type:        qType,
			Interviewer: bq.Interviewer,
			Position:    i,
		})
	}

	return &models.InterviewPlan{
		Meta: models.SessionMeta{
			SessionID:     sessionID,
			Role:          role,
			Difficulty:    difficulty,
			QuestionCount: len(questions),
		},
		Questions: questions,
	}, nil
}

func (b *Bank) pick(role, difficulty string) *bank {
	role = strings.ToLower(strings.TrimSpace(role))

	var roleMatch, general *bank
	for i := range b.banks {
		candidate := &b.banks[i]
		bankRole := strings.ToLower(candidate.Role)
		if bankRole == "general" && general == nil {
			general = candidate
		}
		if bankRole != role && !strings.Contains(role, bankRole) {
			continue
		}
		if candidate.Difficulty == difficulty {
			return candidate
		}
		if roleMatch == nil {
			roleMatch = candidate
		}
	}
	if roleMatch != nil {
		return roleMatch
	}
	return general
}
