package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mockmate/interview-service/internal/models"
	"github.com/mockmate/interview-service/internal/repositories"
	"github.com/xuri/excelize/v2"
)

// ExportService renders a finished session's transcript and report to a
// downloadable workbook.
type ExportService interface {
	ExportSessionToExcel(ctx context.Context, sessionID, userID string) ([]byte, error)
}

type exportService struct {
	repo    repositories.Repository
	reports ReportService
	logger  *slog.Logger
}

func NewExportService(repo repositories.Repository, reports ReportService, logger *slog.Logger) ExportService {
	return &exportService{
		repo:    repo,
		reports: reports,
		logger:  logger,
	}
}

func (s *exportService) ExportSessionToExcel(ctx context.Context, sessionID, userID string) ([]byte, error) {
	s.logger.Info("Exporting session to Excel", "session_id", sessionID, "user_id", userID)

	sess, err := s.repo.Session().GetByIDWithDetails(ctx, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if sess.UserID != userID {
		return nil, ErrSessionAccessDenied
	}

	report, err := s.reports.Get(ctx, sessionID, userID)
	if err != nil && err != ErrReportNotReady {
		return nil, err
	}

	f := excelize.NewFile()
	sheetName := "Transcript"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headers := []string{
		"#", "Interviewer", "Question", "Type", "Your Answer", "Follow-up Answer", "Ideal Answer",
	}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, answer := range sess.Answers {
		row := answerToRow(rowIndex+1, answer)
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	if report != nil {
		s.writeSummarySheet(f, sess, report)
	}

	f.DeleteSheet("Sheet1")

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *exportService) writeSummarySheet(f *excelize.File, sess *models.InterviewSession, report *models.Report) {
	sheetName := "Summary"
	if _, err := f.NewSheet(sheetName); err != nil {
		s.logger.Warn("Failed to add summary sheet", "session_id", sess.ID, "error", err)
		return
	}

	rows := [][]interface{}{
		{"Role", sess.Role},
		{"Difficulty", string(sess.Difficulty)},
		{"Questions", sess.QuestionCount},
		{"Overall Score", report.OverallScore},
		{"Approximate", report.Approximate},
		{"Summary", report.Summary},
	}
	for rowIndex, row := range rows {
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+1)
			f.SetCellValue(sheetName, cell, value)
		}
	}
}

func answerToRow(position int, answer models.AnswerRecord) []interface{} {
	followUp := ""
	if answer.FollowUpAnswer != nil {
		followUp = *answer.FollowUpAnswer
	}
	ideal := ""
	if answer.IdealAnswer != nil {
		ideal = *answer.IdealAnswer
	}
	return []interface{}{
		position,
		answer.Interviewer,
		answer.Prompt,
		string(answer.Type),
		answer.UserAnswer,
		followUp,
		ideal,
	}
}
