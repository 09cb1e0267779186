package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mockmate/interview-service/internal/models"
	"github.com/mockmate/interview-service/internal/repositories"
	"github.com/mockmate/interview-service/internal/services"
	"github.com/mockmate/interview-service/internal/session"
	"github.com/mockmate/interview-service/internal/utils"
)

type SessionHandler struct {
	BaseHandler
	sessionService services.SessionService
	validator      *utils.Validator
}

func NewSessionHandler(
	sessionService services.SessionService,
	validator *utils.Validator,
	logger utils.Logger,
) *SessionHandler {
	return &SessionHandler{
		BaseHandler:    NewBaseHandler(logger),
		sessionService: sessionService,
		validator:      validator,
	}
}

// StartSession creates a session, builds its question plan and opens the
// first turn.
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req services.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	userID, ok := CurrentUserID(c)
	if !ok {
		return
	}

	resp, err := h.sessionService.Start(c.Request.Context(), &req, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	userID, ok := CurrentUserID(c)
	if !ok {
		return
	}

	sess, err := h.sessionService.Get(c.Request.Context(), id, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sess)
}

func (h *SessionHandler) ListSessions(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		return
	}

	filters := repositories.SessionFilters{
		Limit:     parseIntQuery(c, "limit", 20),
		Offset:    parseIntQuery(c, "offset", 0),
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := models.SessionStatus(statusStr)
		filters.Status = &status
	}

	sessions, total, err := h.sessionService.List(c.Request.Context(), userID, filters)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessions": sessions,
		"total":    total,
		"limit":    filters.Limit,
		"offset":   filters.Offset,
	})
}

func (h *SessionHandler) GetTurn(c *gin.Context) {
	h.turnEvent(c, h.sessionService.View)
}

type permissionRequest struct {
	Granted bool `json:"granted"`
}

// SetPermission records the browser's media permission decision.
func (h *SessionHandler) SetPermission(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	userID, ok := CurrentUserID(c)
	if !ok {
		return
	}

	var req permissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	turn, err := h.sessionService.SetPermission(c.Request.Context(), id, userID, req.Granted)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, turn)
}

// Tick advances the think-time countdown by one second.
func (h *SessionHandler) Tick(c *gin.Context) {
	h.turnEvent(c, h.sessionService.Tick)
}

// PlaybackFinished reports that the active audio segment finished playing.
func (h *SessionHandler) PlaybackFinished(c *gin.Context) {
	h.turnEvent(c, h.sessionService.PlaybackFinished)
}

// SkipPlayback drops the active audio segment and promotes the next one.
func (h *SessionHandler) SkipPlayback(c *gin.Context) {
	h.turnEvent(c, h.sessionService.SkipPlayback)
}

// SubmitRecording accepts the captured audio (multipart field "audio") plus
// an optional navigation action and settles the turn.
func (h *SessionHandler) SubmitRecording(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	userID, ok := CurrentUserID(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Missing audio file", err)
		return
	}
	defer file.Close()

	action := session.PendingAction(c.PostForm("action"))
	switch action {
	case session.ActionNone, session.ActionNext, session.ActionEnd, session.ActionFollowUp:
	default:
		h.RespondWithError(c, http.StatusBadRequest, "Invalid action", nil, string(action))
		return
	}

	h.LogRequest(c, "Submitting recording", "session_id", id, "action", string(action))

	turn, err := h.sessionService.SubmitRecording(c.Request.Context(), id, userID, file, header.Filename, action)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, turn)
}

// RepeatPrompt re-queues the current question audio.
func (h *SessionHandler) RepeatPrompt(c *gin.Context) {
	h.turnEvent(c, h.sessionService.RepeatPrompt)
}

// StartFollowUp begins capture for a pending follow-up probe.
func (h *SessionHandler) StartFollowUp(c *gin.Context) {
	h.turnEvent(c, h.sessionService.StartFollowUp)
}

// Advance moves to the next question.
func (h *SessionHandler) Advance(c *gin.Context) {
	h.turnEvent(c, h.sessionService.Advance)
}

// EndSession finishes the interview.
func (h *SessionHandler) EndSession(c *gin.Context) {
	h.turnEvent(c, h.sessionService.End)
}

func (h *SessionHandler) GetSaveStatus(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	userID, ok := CurrentUserID(c)
	if !ok {
		return
	}

	status, err := h.sessionService.SaveStatus(c.Request.Context(), id, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// turnEvent is the shared shape of parameterless turn event endpoints.
func (h *SessionHandler) turnEvent(c *gin.Context, fn func(ctx context.Context, sessionID, userID string) (*services.TurnView, error)) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	userID, ok := CurrentUserID(c)
	if !ok {
		return
	}

	turn, err := fn(c.Request.Context(), id, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, turn)
}
