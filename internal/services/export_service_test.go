package services

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/mockmate/interview-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type stubReportService struct {
	report *models.Report
	err    error
}

func (s *stubReportService) Get(ctx context.Context, sessionID, userID string) (*models.Report, error) {
	return s.report, s.err
}

func TestExportService_WritesWorkbook(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := NewMockRepository()

	followUp := "More detail here."
	repo.SessionRepo.On("GetByIDWithDetails", mock.Anything, "sess-1").Return(&models.InterviewSession{
		ID:         "sess-1",
		UserID:     "user-1",
		Role:       "backend engineer",
		Difficulty: models.DifficultyMiddle,
		Status:     models.SessionStatusCompleted,
		Answers: []models.AnswerRecord{
			{QuestionID: "q-1", Prompt: "Explain a hash map.", Interviewer: "Alex", Type: models.QuestionStandard, UserAnswer: "buckets and hashing", FollowUpAnswer: &followUp},
			{QuestionID: "q-2", Prompt: "Describe a project.", Interviewer: "Dana", Type: models.QuestionStandard, UserAnswer: ""},
		},
	}, nil)

	svc := NewExportService(repo, &stubReportService{report: &models.Report{
		SessionID:    "sess-1",
		OverallScore: 50,
		Summary:      "Halfway there.",
	}}, logger)

	data, err := svc.ExportSessionToExcel(context.Background(), "sess-1", "user-1")
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	prompt, err := f.GetCellValue("Transcript", "C2")
	require.NoError(t, err)
	assert.Equal(t, "Explain a hash map.", prompt)

	summary, err := f.GetCellValue("Summary", "B6")
	require.NoError(t, err)
	assert.Equal(t, "Halfway there.", summary)
}

func TestExportService_ReportNotReadyStillExportsTranscript(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := NewMockRepository()

	repo.SessionRepo.On("GetByIDWithDetails", mock.Anything, "sess-1").Return(&models.InterviewSession{
		ID:     "sess-1",
		UserID: "user-1",
		Status: models.SessionStatusInProgress,
		Answers: []models.AnswerRecord{
			{QuestionID: "q-1", Prompt: "Explain a hash map.", UserAnswer: "buckets"},
		},
	}, nil)

	svc := NewExportService(repo, &stubReportService{err: ErrReportNotReady}, logger)

	data, err := svc.ExportSessionToExcel(context.Background(), "sess-1", "user-1")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "Transcript")
	assert.NotContains(t, sheets, "Summary")
}
