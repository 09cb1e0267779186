package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mockmate/interview-service/internal/services"
	"github.com/mockmate/interview-service/internal/utils"
)

type ResumeHandler struct {
	BaseHandler
	resumeService services.ResumeService
}

func NewResumeHandler(resumeService services.ResumeService, logger utils.Logger) *ResumeHandler {
	return &ResumeHandler{
		BaseHandler:   NewBaseHandler(logger),
		resumeService: resumeService,
	}
}

// UploadResume accepts a multipart résumé file (field "resume") with an
// optional "job_description" field and returns the parsed profile.
func (h *ResumeHandler) UploadResume(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("resume")
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Missing resume file", err)
		return
	}
	defer file.Close()

	jobDescription := c.PostForm("job_description")

	h.LogRequest(c, "Uploading resume", "filename", header.Filename)

	profile, err := h.resumeService.Upload(c.Request.Context(), file, header, jobDescription, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, profile)
}

func (h *ResumeHandler) GetResume(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	userID, ok := CurrentUserID(c)
	if !ok {
		return
	}

	profile, err := h.resumeService.Get(c.Request.Context(), id, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetLatestResume returns the user's most recently parsed profile.
func (h *ResumeHandler) GetLatestResume(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		return
	}

	profile, err := h.resumeService.GetLatest(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
