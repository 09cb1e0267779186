package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// ResumeParseResult is the structured skill/score data returned by the
// external résumé parsing service.
type ResumeParseResult struct {
	Skills     map[string]float64 `json:"skills"`
	Summary    string             `json:"summary"`
	MatchScore *float64           `json:"match_score,omitempty"`
}

// ResumeParserClient parses an uploaded résumé, optionally matched against a
// pasted job description.
type ResumeParserClient interface {
	Parse(ctx context.Context, file io.Reader, filename, jobDescription string) (*ResumeParseResult, error)
}

type resumeParserClient struct {
	baseURL string
	client  *http.Client
}

func NewResumeParserClient(baseURL string) ResumeParserClient {
	return &resumeParserClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

func (c *resumeParserClient) Parse(ctx context.Context, file io.Reader, filename, jobDescription string) (*ResumeParseResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("resume", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create multipart field: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to copy resume data: %w", err)
	}
	if jobDescription != "" {
		if err := writer.WriteField("job_description", jobDescription); err != nil {
			return nil, fmt.Errorf("failed to write job description field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/parse", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create parse request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("resume parse request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("resume parser returned status %d", resp.StatusCode)
	}

	var result ResumeParseResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode parse response: %w", err)
	}
	return &result, nil
}
