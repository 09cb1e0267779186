package services

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/mockmate/interview-service/internal/cache"
	"github.com/mockmate/interview-service/internal/clients"
	"github.com/mockmate/interview-service/internal/models"
	"github.com/mockmate/interview-service/internal/repositories"
	"github.com/mockmate/interview-service/internal/session"
	"github.com/stretchr/testify/mock"
)

// ===== REPOSITORY MOCKS =====

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, s *models.InterviewSession) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSessionRepository) GetByID(ctx context.Context, id string) (*models.InterviewSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InterviewSession), args.Error(1)
}

func (m *MockSessionRepository) GetByIDWithDetails(ctx context.Context, id string) (*models.InterviewSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InterviewSession), args.Error(1)
}

func (m *MockSessionRepository) Update(ctx context.Context, s *models.InterviewSession) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSessionRepository) UpdateStatus(ctx context.Context, id string, status models.SessionStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockSessionRepository) Complete(ctx context.Context, id string, completedAt time.Time, endReason string) error {
	args := m.Called(ctx, id, completedAt, endReason)
	return args.Error(0)
}

func (m *MockSessionRepository) List(ctx context.Context, filters repositories.SessionFilters) ([]*models.InterviewSession, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.InterviewSession), args.Get(1).(int64), args.Error(2)
}

func (m *MockSessionRepository) GetByUser(ctx context.Context, userID string, filters repositories.SessionFilters) ([]*models.InterviewSession, int64, error) {
	args := m.Called(ctx, userID, filters)
	return args.Get(0).([]*models.InterviewSession), args.Get(1).(int64), args.Error(2)
}

type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) CreateBatch(ctx context.Context, questions []models.Question) error {
	args := m.Called(ctx, questions)
	return args.Error(0)
}

func (m *MockQuestionRepository) GetBySession(ctx context.Context, sessionID string) ([]models.Question, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Question), args.Error(1)
}

type MockAnswerRepository struct {
	mock.Mock
}

func (m *MockAnswerRepository) Upsert(ctx context.Context, record *models.AnswerRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockAnswerRepository) UpsertBatch(ctx context.Context, records []models.AnswerRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockAnswerRepository) GetBySession(ctx context.Context, sessionID string) ([]models.AnswerRecord, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AnswerRecord), args.Error(1)
}

func (m *MockAnswerRepository) CountBySession(ctx context.Context, sessionID string) (int64, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(int64), args.Error(1)
}

type MockResumeRepository struct {
	mock.Mock
}

func (m *MockResumeRepository) Create(ctx context.Context, profile *models.ResumeProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockResumeRepository) GetByID(ctx context.Context, id string) (*models.ResumeProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ResumeProfile), args.Error(1)
}

func (m *MockResumeRepository) GetLatestByUser(ctx context.Context, userID string) (*models.ResumeProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ResumeProfile), args.Error(1)
}

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Upsert(ctx context.Context, report *models.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportRepository) GetBySession(ctx context.Context, sessionID string) (*models.Report, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Report), args.Error(1)
}

// MockRepository aggregates the per-table mocks behind the Repository handle.
type MockRepository struct {
	SessionRepo  *MockSessionRepository
	QuestionRepo *MockQuestionRepository
	AnswerRepo   *MockAnswerRepository
	ResumeRepo   *MockResumeRepository
	ReportRepo   *MockReportRepository
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		SessionRepo:  &MockSessionRepository{},
		QuestionRepo: &MockQuestionRepository{},
		AnswerRepo:   &MockAnswerRepository{},
		ResumeRepo:   &MockResumeRepository{},
		ReportRepo:   &MockReportRepository{},
	}
}

func (m *MockRepository) Session() repositories.SessionRepository { return m.SessionRepo }

func (m *MockRepository) Question() repositories.QuestionRepository { return m.QuestionRepo }

func (m *MockRepository) Answer() repositories.AnswerRepository { return m.AnswerRepo }

func (m *MockRepository) Resume() repositories.ResumeRepository { return m.ResumeRepo }

func (m *MockRepository) Report() repositories.ReportRepository { return m.ReportRepo }

func (m *MockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *MockRepository) Ping(ctx context.Context) error { return nil }

func (m *MockRepository) Close() error { return nil }

// ===== SNAPSHOT STORE FAKE =====

// fakeSnapshotStore is an in-memory stand-in for the Redis-backed store.
type fakeSnapshotStore struct {
	mu        sync.Mutex
	snapshots map[string]session.Snapshot
	statuses  map[string]cache.SaveStatus
	saveErr   error
}

func newFakeSnapshotStore() *fakeSnapshotStore {
	return &fakeSnapshotStore{
		snapshots: make(map[string]session.Snapshot),
		statuses:  make(map[string]cache.SaveStatus),
	}
}

func (f *fakeSnapshotStore) Save(ctx context.Context, sessionID string, snap session.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.snapshots[sessionID] = snap
	return nil
}

func (f *fakeSnapshotStore) Load(ctx context.Context, sessionID string) (session.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap, ok := f.snapshots[sessionID]
	if !ok {
		return session.Snapshot{}, cache.ErrSnapshotNotFound
	}
	return snap, nil
}

func (f *fakeSnapshotStore) Delete(ctx context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.snapshots, sessionID)
	return nil
}

func (f *fakeSnapshotStore) SetSaveStatus(ctx context.Context, sessionID string, status cache.SaveStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[sessionID] = status
	return nil
}

func (f *fakeSnapshotStore) GetSaveStatus(ctx context.Context, sessionID string) (cache.SaveStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	status, ok := f.statuses[sessionID]
	if !ok {
		return cache.SaveStatus{OK: true}, nil
	}
	return status, nil
}

// fakeCache is an in-memory stand-in for the Redis-backed cache service. It
// round-trips values through JSON like the real one.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = data
	return nil
}

func (f *fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	f.mu.Lock()
	data, ok := f.entries[key]
	f.mu.Unlock()
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (f *fakeCache) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, key)
	return nil
}

func (f *fakeCache) DeletePattern(ctx context.Context, pattern string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = make(map[string][]byte)
	return nil
}

// ===== CLIENT MOCKS =====

type MockPlannerClient struct {
	mock.Mock
}

func (m *MockPlannerClient) GeneratePlan(ctx context.Context, req clients.PlanRequest) (*models.InterviewPlan, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InterviewPlan), args.Error(1)
}

type MockTranscriberClient struct {
	mock.Mock
}

func (m *MockTranscriberClient) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	args := m.Called(ctx, audio, filename)
	return args.String(0), args.Error(1)
}

type MockScorerClient struct {
	mock.Mock
}

func (m *MockScorerClient) SubmitAnswer(ctx context.Context, sessionID string, answer models.AnswerRecord) (*clients.TurnFeedback, error) {
	args := m.Called(ctx, sessionID, answer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.TurnFeedback), args.Error(1)
}

func (m *MockScorerClient) SubmitSession(ctx context.Context, sessionID string, answers []models.AnswerRecord) error {
	args := m.Called(ctx, sessionID, answers)
	return args.Error(0)
}

func (m *MockScorerClient) FetchReport(ctx context.Context, sessionID string) (*clients.FinalReport, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.FinalReport), args.Error(1)
}

type MockResumeParserClient struct {
	mock.Mock
}

func (m *MockResumeParserClient) Parse(ctx context.Context, file io.Reader, filename, jobDescription string) (*clients.ResumeParseResult, error) {
	args := m.Called(ctx, file, filename, jobDescription)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.ResumeParseResult), args.Error(1)
}
