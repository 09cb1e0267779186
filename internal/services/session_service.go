package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mockmate/interview-service/internal/cache"
	"github.com/mockmate/interview-service/internal/clients"
	"github.com/mockmate/interview-service/internal/events"
	"github.com/mockmate/interview-service/internal/models"
	"github.com/mockmate/interview-service/internal/questionbank"
	"github.com/mockmate/interview-service/internal/repositories"
	"github.com/mockmate/interview-service/internal/session"
	"github.com/mockmate/interview-service/internal/utils"
)

// SnapshotStore parks live controller state between requests. Satisfied by
// cache.SnapshotStore.
type SnapshotStore interface {
	Save(ctx context.Context, sessionID string, snap session.Snapshot) error
	Load(ctx context.Context, sessionID string) (session.Snapshot, error)
	Delete(ctx context.Context, sessionID string) error
	SetSaveStatus(ctx context.Context, sessionID string, status cache.SaveStatus) error
	GetSaveStatus(ctx context.Context, sessionID string) (cache.SaveStatus, error)
}

// SessionService drives interview sessions end to end: planning, the
// per-question turn loop, answer persistence and completion.
type SessionService interface {
	Start(ctx context.Context, req *StartSessionRequest, userID string) (*StartSessionResponse, error)
	Get(ctx context.Context, sessionID, userID string) (*models.InterviewSession, error)
	List(ctx context.Context, userID string, filters repositories.SessionFilters) ([]*models.InterviewSession, int64, error)

	// Turn events
	SetPermission(ctx context.Context, sessionID, userID string, granted bool) (*TurnView, error)
	Tick(ctx context.Context, sessionID, userID string) (*TurnView, error)
	PlaybackFinished(ctx context.Context, sessionID, userID string) (*TurnView, error)
	SkipPlayback(ctx context.Context, sessionID, userID string) (*TurnView, error)
	SubmitRecording(ctx context.Context, sessionID, userID string, audio io.Reader, filename string, action session.PendingAction) (*TurnView, error)
	RepeatPrompt(ctx context.Context, sessionID, userID string) (*TurnView, error)
	StartFollowUp(ctx context.Context, sessionID, userID string) (*TurnView, error)
	Advance(ctx context.Context, sessionID, userID string) (*TurnView, error)
	End(ctx context.Context, sessionID, userID string) (*TurnView, error)

	SaveStatus(ctx context.Context, sessionID, userID string) (*cache.SaveStatus, error)
	View(ctx context.Context, sessionID, userID string) (*TurnView, error)
}

// ===== REQUEST/RESPONSE TYPES =====

type StartSessionRequest struct {
	Role             string                 `json:"role" validate:"required,min=1,max=200"`
	Difficulty       models.DifficultyLevel `json:"difficulty" validate:"required,difficulty_level"`
	QuestionCount    int                    `json:"question_count" validate:"required,min=1,max=20"`
	ThinkTimeSeconds int                    `json:"think_time_seconds" validate:"omitempty,min=1,max=120"`
	Interviewers     []string               `json:"interviewers" validate:"omitempty,max=5,dive,min=1,max=100"`
}

type StartSessionResponse struct {
	Meta models.SessionMeta `json:"meta"`
	Turn *TurnView          `json:"turn"`
}

// QuestionView is the client-facing slice of the current question. The ideal
// answer is deliberately withheld until the report.
type QuestionView struct {
	ID          string              `json:"id"`
	Prompt      string              `json:"prompt"`
	Topic       string              `json:"topic,omitempty"`
	Type        models.QuestionType `json:"type"`
	Interviewer string              `json:"interviewer,omitempty"`
	Position    int                 `json:"position"`
}

// TurnView is the full turn state handed back after every session event.
type TurnView struct {
	SessionID          string                `json:"session_id"`
	State              session.State         `json:"state"`
	QuestionIndex      int                   `json:"question_index"`
	QuestionCount      int                   `json:"question_count"`
	Question           *QuestionView         `json:"question,omitempty"`
	ThinkTimeRemaining int                   `json:"think_time_remaining"`
	RepeatsLeft        int                   `json:"repeats_left"`
	Pending            session.PendingAction `json:"pending_action,omitempty"`
	InFollowUp         bool                  `json:"in_follow_up"`
	PermissionError    bool                  `json:"permission_error"`
	AnsweredCount      int                   `json:"answered_count"`
	NowPlaying         *models.AudioSegment  `json:"now_playing,omitempty"`
	QueuedAudio        int                   `json:"queued_audio"`
	Ended              bool                  `json:"ended"`
}

// ===== IMPLEMENTATION =====

// liveSession pairs a session row with its in-memory controller. Access is
// serialized through mu; the controller itself is not goroutine safe.
type liveSession struct {
	mu   sync.Mutex
	sess *models.InterviewSession
	ctrl *session.Controller
}

type sessionService struct {
	repo        repositories.Repository
	snapshots   SnapshotStore
	planner     clients.PlannerClient
	transcriber clients.TranscriberClient
	scorer      clients.ScorerClient
	bank        *questionbank.Bank
	publisher   events.EventPublisher
	logger      *slog.Logger
	validator   *utils.Validator

	// Applied when the start request omits think_time_seconds.
	defaultThinkTime int

	mu   sync.Mutex
	live map[string]*liveSession
}

func NewSessionService(
	repo repositories.Repository,
	snapshots SnapshotStore,
	planner clients.PlannerClient,
	transcriber clients.TranscriberClient,
	scorer clients.ScorerClient,
	bank *questionbank.Bank,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *utils.Validator,
	defaultThinkTime int,
) SessionService {
	return &sessionService{
		repo:             repo,
		snapshots:        snapshots,
		planner:          planner,
		transcriber:      transcriber,
		scorer:           scorer,
		bank:             bank,
		publisher:        publisher,
		logger:           logger,
		validator:        validator,
		defaultThinkTime: defaultThinkTime,
		live:             make(map[string]*liveSession),
	}
}

// ===== SESSION LIFECYCLE =====

func (s *sessionService) Start(ctx context.Context, req *StartSessionRequest, userID string) (*StartSessionResponse, error) {
	s.logger.Info("Starting interview session",
		"user_id", userID,
		"role", req.Role,
		"difficulty", req.Difficulty,
		"question_count", req.QuestionCount)

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	thinkTime := req.ThinkTimeSeconds
	if thinkTime == 0 {
		thinkTime = s.defaultThinkTime
	}

	sess := &models.InterviewSession{
		ID:               uuid.NewString(),
		UserID:           userID,
		Role:             req.Role,
		Difficulty:       req.Difficulty,
		QuestionCount:    req.QuestionCount,
		Status:           models.SessionStatusInProgress,
		ThinkTimeSeconds: thinkTime,
		StartedAt:        time.Now(),
	}

	plan, err := s.buildPlan(ctx, sess, req.Interviewers)
	if err != nil {
		return nil, err
	}
	sess.Questions = plan.Questions
	sess.QuestionCount = len(plan.Questions)

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Session().Create(ctx, sess); err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}
		if err := tx.Question().CreateBatch(ctx, plan.Questions); err != nil {
			return fmt.Errorf("failed to store question plan: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctrl, err := session.NewController(plan.Questions, sess.ThinkTimeSeconds)
	if err != nil {
		return nil, ErrPlanEmpty
	}
	if err := ctrl.Begin(); err != nil {
		return nil, err
	}

	ls := &liveSession{sess: sess, ctrl: ctrl}
	s.mu.Lock()
	s.live[sess.ID] = ls
	s.mu.Unlock()

	s.saveSnapshot(ctx, sess.ID, ctrl)

	if err := s.publisher.PublishSessionEvent(ctx, events.NewSessionStartedEvent(sess)); err != nil {
		s.logger.Warn("Failed to publish session started event", "session_id", sess.ID, "error", err)
	}

	s.logger.Info("Interview session started",
		"session_id", sess.ID,
		"question_count", sess.QuestionCount)

	return &StartSessionResponse{
		Meta: sess.Meta(),
		Turn: s.view(ls),
	}, nil
}

// buildPlan asks the planner for a question list and falls back to the
// built-in bank when the planner is unreachable, so the user always has a
// forward path.
func (s *sessionService) buildPlan(ctx context.Context, sess *models.InterviewSession, interviewers []string) (*models.InterviewPlan, error) {
	plan, err := s.planner.GeneratePlan(ctx, clients.PlanRequest{
		Role:         sess.Role,
		Difficulty:   sess.Difficulty,
		Interviewers: interviewers,
		Count:        sess.QuestionCount,
	})
	if err == nil {
		for i := range plan.Questions {
			plan.Questions[i].SessionID = sess.ID
		}
		return plan, nil
	}

	s.logger.Warn("Planner unavailable, using built-in question bank",
		"session_id", sess.ID,
		"error", err)

	plan, bankErr := s.bank.BuildPlan(sess.ID, sess.Role, sess.Difficulty, sess.QuestionCount)
	if bankErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrPlannerUnavailable, err)
	}
	return plan, nil
}

func (s *sessionService) Get(ctx context.Context, sessionID, userID string) (*models.InterviewSession, error) {
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
	count, err := s.repo.Answer().CountBySession(ctx, sessionID)
	if err == nil {
		sess.AnsweredCount = int(count)
	}
	return sess, nil
}

func (s *sessionService) List(ctx context.Context, userID string, filters repositories.SessionFilters) ([]*models.InterviewSession, int64, error) {
	return s.repo.Session().GetByUser(ctx, userID, filters)
}

// ===== TURN EVENTS =====

func (s *sessionService) SetPermission(ctx context.Context, sessionID, userID string, granted bool) (*TurnView, error) {
	return s.withSession(ctx, sessionID, userID, func(ls *liveSession) error {
		if granted {
			ls.ctrl.GrantPermission()
		} else {
			ls.ctrl.DenyPermission()
			s.logger.Warn("Media permission denied", "session_id", sessionID)
		}
		return nil
	})
}

func (s *sessionService) Tick(ctx context.Context, sessionID, userID string) (*TurnView, error) {
	return s.withSession(ctx, sessionID, userID, func(ls *liveSession) error {
		ls.ctrl.Tick()
		return nil
	})
}

func (s *sessionService) PlaybackFinished(ctx context.Context, sessionID, userID string) (*TurnView, error) {
	return s.withSession(ctx, sessionID, userID, func(ls *liveSession) error {
		ls.ctrl.Queue().CompleteCurrent()
		return nil
	})
}

func (s *sessionService) SkipPlayback(ctx context.Context, sessionID, userID string) (*TurnView, error) {
	return s.withSession(ctx, sessionID, userID, func(ls *liveSession) error {
		ls.ctrl.Queue().Skip()
		return nil
	})
}

// SubmitRecording ends the capture segment, transcribes the uploaded audio
// and settles the turn. A transcriber failure stores the sentinel answer and
// the turn still progresses; the user is never stuck behind a failed call.
func (s *sessionService) SubmitRecording(ctx context.Context, sessionID, userID string, audio io.Reader, filename string, action session.PendingAction) (*TurnView, error) {
	return s.withSession(ctx, sessionID, userID, func(ls *liveSession) error {
		ctrl := ls.ctrl

		if ctrl.State() == session.StateRecording {
			if err := ctrl.StopRecording(action); err != nil {
				return s.mapTurnError(err)
			}
		} else if ctrl.State() != session.StateTranscribing {
			return ErrTurnInvalidEvent
		}

		q := ctrl.Current()
		inFollowUp := ctrl.InFollowUp()
		parked := ctrl.Pending()

		raw, err := s.transcriber.Transcribe(ctx, audio, filename)
		failed := err != nil
		if failed {
			s.logger.Warn("Transcription failed, storing sentinel answer",
				"session_id", sessionID,
				"question_id", q.ID,
				"error", err)
		}

		if _, err := ctrl.ResolveTranscript(raw, failed); err != nil {
			return s.mapTurnError(err)
		}

		if !inFollowUp {
			rec, _ := ctrl.Ledger().Get(q.ID)
			s.publishEvent(ctx, events.NewTurnCompletedEvent(sessionID, q, rec.UserAnswer == ""))
			s.applyTurnFeedback(ctx, ls, rec)
		}

		s.persistAnswers(ls)
		if ctrl.Ended() {
			reason := "completed"
			if parked == session.ActionEnd {
				reason = "user_end"
			}
			s.completeSession(ctx, ls, reason)
		}
		return nil
	})
}

// applyTurnFeedback submits the answer to the scorer and applies its
// reaction: comment audio joins the playback queue and a follow-up
// instruction halts forward progress for a sub-turn. Scorer failures are
// logged and ignored; the interview continues without live feedback.
func (s *sessionService) applyTurnFeedback(ctx context.Context, ls *liveSession, rec models.AnswerRecord) {
	ctrl := ls.ctrl
	if ctrl.Ended() {
		return
	}

	feedback, err := s.scorer.SubmitAnswer(ctx, ls.sess.ID, rec)
	if err != nil {
		s.logger.Warn("Scorer unreachable, continuing without turn feedback",
			"session_id", ls.sess.ID,
			"error", err)
		return
	}

	if feedback.CommentAudioURL != nil {
		ctrl.Queue().Enqueue(models.AudioSegment{URL: *feedback.CommentAudioURL, Label: "comment"})
	}

	if feedback.FollowUp != nil && ctrl.State() == session.StateReadyToAdvance {
		var audio *models.AudioSegment
		if feedback.FollowUp.AudioURL != nil {
			audio = &models.AudioSegment{URL: *feedback.FollowUp.AudioURL, Label: "follow_up"}
		}
		if err := ctrl.IssueFollowUp(audio); err == nil {
			s.publishEvent(ctx, events.NewFollowUpIssuedEvent(ls.sess.ID, rec.QuestionID))
		}
	}
}

func (s *sessionService) RepeatPrompt(ctx context.Context, sessionID, userID string) (*TurnView, error) {
	return s.withSession(ctx, sessionID, userID, func(ls *liveSession) error {
		if !ls.ctrl.RepeatPrompt() {
			return ErrRepeatLimitReached
		}
		return nil
	})
}

func (s *sessionService) StartFollowUp(ctx context.Context, sessionID, userID string) (*TurnView, error) {
	return s.withSession(ctx, sessionID, userID, func(ls *liveSession) error {
		if err := ls.ctrl.StartFollowUpRecording(); err != nil {
			return s.mapTurnError(err)
		}
		return nil
	})
}

func (s *sessionService) Advance(ctx context.Context, sessionID, userID string) (*TurnView, error) {
	return s.withSession(ctx, sessionID, userID, func(ls *liveSession) error {
		if err := ls.ctrl.Advance(); err != nil {
			return s.mapTurnError(err)
		}
		if ls.ctrl.Ended() {
			s.completeSession(ctx, ls, "completed")
		}
		return nil
	})
}

func (s *sessionService) End(ctx context.Context, sessionID, userID string) (*TurnView, error) {
	return s.withSession(ctx, sessionID, userID, func(ls *liveSession) error {
		if err := ls.ctrl.End(); err != nil {
			return s.mapTurnError(err)
		}
		// Ending mid-recording parks the intent; completion happens once the
		// in-flight transcript settles.
		if ls.ctrl.Ended() {
			s.completeSession(ctx, ls, "user_end")
		}
		return nil
	})
}

func (s *sessionService) SaveStatus(ctx context.Context, sessionID, userID string) (*cache.SaveStatus, error) {
	if _, err := s.Get(ctx, sessionID, userID); err != nil {
		return nil, err
	}
	status, err := s.snapshots.GetSaveStatus(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func (s *sessionService) View(ctx context.Context, sessionID, userID string) (*TurnView, error) {
	return s.withSession(ctx, sessionID, userID, func(ls *liveSession) error {
		return nil
	})
}

// ===== INTERNAL PLUMBING =====

// withSession runs fn against the live controller under the per-session lock,
// then snapshots the result. The returned view reflects state after fn.
func (s *sessionService) withSession(ctx context.Context, sessionID, userID string, fn func(*liveSession) error) (*TurnView, error) {
	ls, err := s.loadSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	if err := fn(ls); err != nil {
		return nil, err
	}
	s.saveSnapshot(ctx, sessionID, ls.ctrl)
	return s.view(ls), nil
}

// loadSession returns the live controller, restoring it from the snapshot
// store when this instance has not seen the session yet. A missing or invalid
// snapshot restarts the turn loop from the front of the plan.
func (s *sessionService) loadSession(ctx context.Context, sessionID, userID string) (*liveSession, error) {
	s.mu.Lock()
	if ls, ok := s.live[sessionID]; ok {
		s.mu.Unlock()
		if ls.sess.UserID != userID {
			return nil, ErrSessionAccessDenied
		}
		return ls, nil
	}
	s.mu.Unlock()

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
	if sess.Status == models.SessionStatusCompleted || sess.Status == models.SessionStatusAbandoned {
		return nil, ErrSessionAlreadyEnded
	}

	var ctrl *session.Controller
	snap, err := s.snapshots.Load(ctx, sessionID)
	if err == nil {
		ctrl, err = session.Restore(sess.Questions, sess.ThinkTimeSeconds, snap)
	}
	if ctrl == nil {
		if err != nil {
			s.logger.Warn("Session snapshot unusable, restarting turn loop",
				"session_id", sessionID,
				"error", err)
		}
		ctrl, err = session.NewController(sess.Questions, sess.ThinkTimeSeconds)
		if err != nil {
			return nil, ErrPlanEmpty
		}
		if err := ctrl.Begin(); err != nil {
			return nil, err
		}
	}

	ls := &liveSession{sess: sess, ctrl: ctrl}
	s.mu.Lock()
	if existing, ok := s.live[sessionID]; ok {
		ls = existing
	} else {
		s.live[sessionID] = ls
	}
	s.mu.Unlock()
	return ls, nil
}

func (s *sessionService) saveSnapshot(ctx context.Context, sessionID string, ctrl *session.Controller) {
	if err := s.snapshots.Save(ctx, sessionID, ctrl.Snapshot()); err != nil {
		s.logger.Warn("Failed to save session snapshot", "session_id", sessionID, "error", err)
	}
}

// persistAnswers writes the ledger through to the database in the background.
// A failure flips the save-status indicator but never blocks the turn loop;
// the in-memory ledger stays authoritative until final submission.
func (s *sessionService) persistAnswers(ls *liveSession) {
	records := ls.ctrl.Ledger().Payload()
	if len(records) == 0 {
		return
	}
	sessionID := ls.sess.ID

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		status := cache.SaveStatus{OK: true}
		if err := s.repo.Answer().UpsertBatch(ctx, records); err != nil {
			s.logger.Error("Failed to persist answers", "session_id", sessionID, "error", err)
			status = cache.SaveStatus{OK: false, Message: "answers not saved yet"}
		}
		if err := s.snapshots.SetSaveStatus(ctx, sessionID, status); err != nil {
			s.logger.Warn("Failed to update save status", "session_id", sessionID, "error", err)
		}
	}()
}

// completeSession finalizes the database row, flushes the ledger and submits
// the full session to the scorer. Called with the session lock held.
func (s *sessionService) completeSession(ctx context.Context, ls *liveSession, endReason string) {
	sess := ls.sess
	answers := ls.ctrl.Ledger().Payload()

	now := time.Now()
	if err := s.repo.Session().Complete(ctx, sess.ID, now, endReason); err != nil {
		s.logger.Error("Failed to mark session completed", "session_id", sess.ID, "error", err)
	}
	if len(answers) > 0 {
		if err := s.repo.Answer().UpsertBatch(ctx, answers); err != nil {
			s.logger.Error("Failed to flush answers on completion", "session_id", sess.ID, "error", err)
		}
	}
	sess.Status = models.SessionStatusCompleted
	sess.CompletedAt = &now
	sess.EndReason = &endReason

	if err := s.scorer.SubmitSession(ctx, sess.ID, answers); err != nil {
		s.logger.Warn("Failed to submit session for scoring", "session_id", sess.ID, "error", err)
	}

	s.publishEvent(ctx, events.NewSessionCompletedEvent(sess, len(answers), endReason))

	if err := s.snapshots.Delete(ctx, sess.ID); err != nil {
		s.logger.Warn("Failed to delete session snapshot", "session_id", sess.ID, "error", err)
	}

	s.mu.Lock()
	delete(s.live, sess.ID)
	s.mu.Unlock()

	s.logger.Info("Interview session completed",
		"session_id", sess.ID,
		"end_reason", endReason,
		"answered_count", len(answers))
}

func (s *sessionService) publishEvent(ctx context.Context, event *events.SessionEvent) {
	if err := s.publisher.PublishSessionEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish session event", "event_type", event.Type, "error", err)
	}
}

// mapTurnError translates controller sentinels into service errors.
func (s *sessionService) mapTurnError(err error) error {
	switch err {
	case session.ErrInvalidTransition:
		return ErrTurnInvalidEvent
	case session.ErrPendingActionSet:
		return ErrTurnActionPending
	case session.ErrPermissionDenied:
		return ErrMicrophoneDenied
	case session.ErrSessionEnded:
		return ErrSessionAlreadyEnded
	default:
		return err
	}
}

func (s *sessionService) view(ls *liveSession) *TurnView {
	ctrl := ls.ctrl
	v := &TurnView{
		SessionID:          ls.sess.ID,
		State:              ctrl.State(),
		QuestionIndex:      ctrl.Index(),
		QuestionCount:      ctrl.QuestionCount(),
		ThinkTimeRemaining: ctrl.ThinkTimeRemaining(),
		RepeatsLeft:        session.MaxRepeats - ctrl.Repeats(),
		Pending:            ctrl.Pending(),
		InFollowUp:         ctrl.InFollowUp(),
		PermissionError:    ctrl.PermissionError(),
		AnsweredCount:      ctrl.Ledger().Len(),
		NowPlaying:         ctrl.Queue().Active(),
		QueuedAudio:        ctrl.Queue().Len(),
		Ended:              ctrl.Ended(),
	}
	if !ctrl.Ended() {
		q := ctrl.Current()
		v.Question = &QuestionView{
			ID:          q.ID,
			Prompt:      q.Prompt,
			Topic:       q.Topic,
			Type:        q.Type,
			Interviewer: q.Interviewer,
			Position:    q.Position,
		}
	}
	return v
}
