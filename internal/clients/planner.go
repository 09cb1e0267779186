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

// PlanRequest is the input to the question generation service.
type PlanRequest struct {
	Role         string                 `json:"role"`
	Difficulty   models.DifficultyLevel `json:"difficulty"`
	Interviewers []string               `json:"interviewers"`
	Count        int                    `json:"count"`
}

// PlannerClient generates interview question plans via the external planner.
type PlannerClient interface {
	GeneratePlan(ctx context.Context, req PlanRequest) (*models.InterviewPlan, error)
}

type plannerClient struct {
	baseURL string
	client  *http.Client
}

func NewPlannerClient(baseURL string) PlannerClient {
	return &plannerClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (c *plannerClient) GeneratePlan(ctx context.Context, req PlanRequest) (*models.InterviewPlan, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal plan request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/plans", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create plan request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("planner request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("planner returned status %d", resp.StatusCode)
	}

	var plan models.InterviewPlan
	if err := json.NewDecoder(resp.Body).Decode(&plan); err != nil {
		return nil, fmt.Errorf("failed to decode plan response: %w", err)
	}
	if len(plan.Questions) == 0 {
		return nil, fmt.Errorf("planner returned an empty question list")
	}
	return &plan, nil
}
