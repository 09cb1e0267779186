package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mockmate/interview-service/internal/cache"
	"github.com/mockmate/interview-service/internal/clients"
	"github.com/mockmate/interview-service/internal/events"
	"github.com/mockmate/interview-service/internal/models"
	"github.com/mockmate/interview-service/internal/repositories"
	"github.com/mockmate/interview-service/internal/session"
)

const (
	reportCacheKeyPrefix = "report:"
	reportCacheTTL       = time.Hour
)

// ReportService retrieves scored session reports. When the scoring backend is
// unreachable it synthesizes an approximate report from the stored answers so
// the user still gets feedback; such reports are flagged Approximate.
type ReportService interface {
	Get(ctx context.Context, sessionID, userID string) (*models.Report, error)
}

type reportService struct {
	repo      repositories.Repository
	scorer    clients.ScorerClient
	publisher events.EventPublisher
	cache     cache.CacheService
	logger    *slog.Logger
}

func NewReportService(repo repositories.Repository, scorer clients.ScorerClient, publisher events.EventPublisher, cacheSvc cache.CacheService, logger *slog.Logger) ReportService {
	return &reportService{
		repo:      repo,
		scorer:    scorer,
		publisher: publisher,
		cache:     cacheSvc,
		logger:    logger,
	}
}

func (s *reportService) Get(ctx context.Context, sessionID, userID string) (*models.Report, error) {
	sess, err := s.repo.Session().GetByID(ctx, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if sess.UserID != userID {
		return nil, ErrSessionAccessDenied
	}
	if sess.Status != models.SessionStatusCompleted {
		return nil, ErrReportNotReady
	}

	var cached models.Report
	if err := s.cache.Get(ctx, reportCacheKeyPrefix+sessionID, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Report cache read failed", "session_id", sessionID, "error", err)
	}

	if report, err := s.repo.Report().GetBySession(ctx, sessionID); err == nil {
		s.cacheReport(ctx, report)
		return report, nil
	} else if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	report, err := s.fetchOrSynthesize(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Report().Upsert(ctx, report); err != nil {
		s.logger.Error("Failed to store report", "session_id", sessionID, "error", err)
	}
	s.cacheReport(ctx, report)

	if err := s.publisher.PublishSessionEvent(ctx, events.NewReportReadyEvent(report, userID)); err != nil {
		s.logger.Warn("Failed to publish report ready event", "session_id", sessionID, "error", err)
	}

	return report, nil
}

// cacheReport stores a report for subsequent reads. Reports are immutable once
// produced, so staleness is not a concern; the TTL just bounds memory.
func (s *reportService) cacheReport(ctx context.Context, report *models.Report) {
	if err := s.cache.Set(ctx, reportCacheKeyPrefix+report.SessionID, report, reportCacheTTL); err != nil {
		s.logger.Warn("Failed to cache report", "session_id", report.SessionID, "error", err)
	}
}

func (s *reportService) fetchOrSynthesize(ctx context.Context, sessionID string) (*models.Report, error) {
	remote, err := s.scorer.FetchReport(ctx, sessionID)
	if err == nil {
		skills, err := json.Marshal(remote.Skills)
		if err != nil {
			return nil, fmt.Errorf("failed to encode report skills: %w", err)
		}
		return &models.Report{
			SessionID:    sessionID,
			OverallScore: remote.OverallScore,
			Skills:       skills,
			Summary:      remote.Summary,
		}, nil
	}

	s.logger.Warn("Scorer unreachable, synthesizing approximate report",
		"session_id", sessionID,
		"error", err)

	answers, dbErr := s.repo.Answer().GetBySession(ctx, sessionID)
	if dbErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrScorerUnreachable, err)
	}
	return s.synthesize(sessionID, answers)
}

// synthesize builds a rough local report from the answer ledger: the score
// reflects how many questions got a usable answer, nothing more. Clients must
// present it as an estimate.
func (s *reportService) synthesize(sessionID string, answers []models.AnswerRecord) (*models.Report, error) {
	answered := 0
	for _, a := range answers {
		if a.UserAnswer != "" && a.UserAnswer != session.TranscriptionFailedAnswer {
			answered++
		}
	}

	var score float64
	if len(answers) > 0 {
		score = float64(answered) / float64(len(answers)) * 100
	}

	skillScores := []models.SkillScore{
		{
			Skill:    "completion",
			Score:    score,
			Comments: fmt.Sprintf("%d of %d questions answered", answered, len(answers)),
		},
	}
	skills, err := json.Marshal(skillScores)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report skills: %w", err)
	}

	return &models.Report{
		SessionID:    sessionID,
		OverallScore: score,
		Skills:       skills,
		Summary:      "Approximate report generated locally; the scoring service was unavailable.",
		Approximate:  true,
	}, nil
}
