package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/mockmate/interview-service/internal/clients"
	"github.com/mockmate/interview-service/internal/models"
	"github.com/mockmate/interview-service/internal/repositories"
)

// maxResumeBytes caps uploaded résumé files at 5 MB.
const maxResumeBytes = 5 << 20

var allowedResumeExtensions = map[string]struct{}{
	".pdf":  {},
	".doc":  {},
	".docx": {},
	".txt":  {},
	".md":   {},
}

// ResumeService handles résumé upload, parsing and retrieval.
type ResumeService interface {
	Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader, jobDescription, userID string) (*models.ResumeProfile, error)
	Get(ctx context.Context, resumeID, userID string) (*models.ResumeProfile, error)
	GetLatest(ctx context.Context, userID string) (*models.ResumeProfile, error)
}

type resumeService struct {
	repo   repositories.Repository
	parser clients.ResumeParserClient
	logger *slog.Logger
}

func NewResumeService(repo repositories.Repository, parser clients.ResumeParserClient, logger *slog.Logger) ResumeService {
	return &resumeService{
		repo:   repo,
		parser: parser,
		logger: logger,
	}
}

func (s *resumeService) Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader, jobDescription, userID string) (*models.ResumeProfile, error) {
	s.logger.Info("Parsing uploaded resume",
		"user_id", userID,
		"filename", header.Filename,
		"size", header.Size)

	if header.Size > maxResumeBytes {
		return nil, ErrResumeTooLarge
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if _, ok := allowedResumeExtensions[ext]; !ok {
		return nil, NewValidationError("file", "unsupported resume format", ext)
	}

	result, err := s.parser.Parse(ctx, file, header.Filename, jobDescription)
	if err != nil {
		s.logger.Error("Resume parser failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrResumeParseFailed, err)
	}

	skills, err := json.Marshal(result.Skills)
	if err != nil {
		return nil, fmt.Errorf("failed to encode parsed skills: %w", err)
	}

	profile := &models.ResumeProfile{
		ID:         uuid.NewString(),
		UserID:     userID,
		FileName:   header.Filename,
		Skills:     skills,
		Summary:    result.Summary,
		MatchScore: result.MatchScore,
	}
	if jobDescription != "" {
		profile.JobDescription = &jobDescription
	}

	if err := s.repo.Resume().Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to store resume profile: %w", err)
	}

	s.logger.Info("Resume profile stored", "resume_id", profile.ID, "user_id", userID)
	return profile, nil
}

func (s *resumeService) Get(ctx context.Context, resumeID, userID string) (*models.ResumeProfile, error) {
	profile, err := s.repo.Resume().GetByID(ctx, resumeID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrResumeNotFound
		}
		return nil, fmt.Errorf("failed to get resume profile: %w", err)
	}
	if profile.UserID != userID {
		return nil, ErrForbidden
	}
	return profile, nil
}

func (s *resumeService) GetLatest(ctx context.Context, userID string) (*models.ResumeProfile, error) {
	profile, err := s.repo.Resume().GetLatestByUser(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrResumeNotFound
		}
		return nil, fmt.Errorf("failed to get resume profile: %w", err)
	}
	return profile, nil
}
