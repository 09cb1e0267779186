package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mockmate/interview-service/internal/models"
)

// TurnFeedback is the scorer's reaction to one submitted answer: optional
// interviewer comment audio and an optional follow-up instruction.
type TurnFeedback struct {
	CommentAudioURL *string `json:"comment_audio_url,omitempty"`
	FollowUp        *struct {
		Prompt   string  `json:"prompt"`
		AudioURL *string `json:"audio_url,omitempty"`
	} `json:"follow_up,omitempty"`
}

// FinalReport is the scorer's stored report for a finished session.
type FinalReport struct {
	OverallScore float64             `json:"overall_score"`
	Skills       []models.SkillScore `json:"skills"`
	Summary      string              `json:"summary"`
}

// ScorerClient is the answer submission / real-time scoring service.
type ScorerClient interface {
	SubmitAnswer(ctx context.Context, sessionID string, answer models.AnswerRecord) (*TurnFeedback, error)
	SubmitSession(ctx context.Context, sessionID string, answers []models.AnswerRecord) error
	FetchReport(ctx context.Context, sessionID string) (*FinalReport, error)
}

type scorerClient struct {
	baseURL string
	client  *http.Client
}

func NewScorerClient(baseURL string) ScorerClient {
	return &scorerClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (c *scorerClient) SubmitAnswer(ctx context.Context, sessionID string, answer models.AnswerRecord) (*TurnFeedback, error) {
	var feedback TurnFeedback
	url := fmt.Sprintf("%s/v1/sessions/%s/answers", c.baseURL, sessionID)
	if err := c.postJSON(ctx, url, answer, &feedback); err != nil {
		return nil, err
	}
	return &feedback, nil
}

func (c *scorerClient) SubmitSession(ctx context.Context, sessionID string, answers []models.AnswerRecord) error {
	url := fmt.Sprintf("%s/v1/sessions/%s/submit", c.baseURL, sessionID)
	return c.postJSON(ctx, url, answers, nil)
}

func (c *scorerClient) FetchReport(ctx context.Context, sessionID string) (*FinalReport, error) {
	url := fmt.Sprintf("%s/v1/sessions/%s/report", c.baseURL, sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create report request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("report request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scorer returned status %d", resp.StatusCode)
	}

	var report FinalReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, fmt.Errorf("failed to decode report response: %w", err)
	}
	return &report, nil
}

func (c *scorerClient) postJSON(ctx context.Context, url string, payload interface{}, dest interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal scorer payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create scorer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("scorer request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("scorer returned status %d", resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode scorer response: %w", err)
	}
	return nil
}
