package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"testing"

	"github.com/mockmate/interview-service/internal/clients"
	"github.com/mockmate/interview-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newResumeServiceFixture() (ResumeService, *MockRepository, *MockResumeParserClient) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := NewMockRepository()
	parser := &MockResumeParserClient{}
	return NewResumeService(repo, parser, logger), repo, parser
}

func makeUpload(t *testing.T, filename, content string) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	fw, err := w.CreateFormFile("resume", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(body, w.Boundary()).ReadForm(10 << 20)
	require.NoError(t, err)
	header := form.File["resume"][0]
	file, err := header.Open()
	require.NoError(t, err)
	return file, header
}

func TestResumeService_UploadStoresParsedProfile(t *testing.T) {
	svc, repo, parser := newResumeServiceFixture()

	file, header := makeUpload(t, "cv.pdf", "ten years of Go")
	defer file.Close()

	matchScore := 0.82
	parser.On("Parse", mock.Anything, mock.Anything, "cv.pdf", "backend role").Return(&clients.ResumeParseResult{
		Skills:     map[string]float64{"go": 0.9, "sql": 0.7},
		Summary:    "Experienced backend engineer.",
		MatchScore: &matchScore,
	}, nil)
	repo.ResumeRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *models.ResumeProfile) bool {
		return p.UserID == "user-1" && p.FileName == "cv.pdf" && p.MatchScore != nil
	})).Return(nil)

	profile, err := svc.Upload(context.Background(), file, header, "backend role", "user-1")
	require.NoError(t, err)
	assert.NotEmpty(t, profile.ID)
	assert.Equal(t, "Experienced backend engineer.", profile.Summary)
	require.NotNil(t, profile.JobDescription)
	assert.Equal(t, "backend role", *profile.JobDescription)
	repo.ResumeRepo.AssertExpectations(t)
}

func TestResumeService_UploadRejectsUnknownExtension(t *testing.T) {
	svc, _, parser := newResumeServiceFixture()

	file, header := makeUpload(t, "cv.exe", "not a resume")
	defer file.Close()

	_, err := svc.Upload(context.Background(), file, header, "", "user-1")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "file", ve.Field)
	parser.AssertNotCalled(t, "Parse", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestResumeService_ParserFailureIsTyped(t *testing.T) {
	svc, _, parser := newResumeServiceFixture()

	file, header := makeUpload(t, "cv.pdf", "ten years of Go")
	defer file.Close()

	parser.On("Parse", mock.Anything, mock.Anything, "cv.pdf", "").Return(nil, errors.New("503"))

	_, err := svc.Upload(context.Background(), file, header, "", "user-1")
	assert.ErrorIs(t, err, ErrResumeParseFailed)
}

func TestResumeService_GetEnforcesOwnership(t *testing.T) {
	svc, repo, _ := newResumeServiceFixture()

	repo.ResumeRepo.On("GetByID", mock.Anything, "resume-1").Return(&models.ResumeProfile{
		ID:     "resume-1",
		UserID: "user-1",
	}, nil)

	_, err := svc.Get(context.Background(), "resume-1", "someone-else")
	assert.ErrorIs(t, err, ErrForbidden)
}
