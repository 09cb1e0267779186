package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/mockmate/interview-service/internal/services"
	"github.com/mockmate/interview-service/internal/utils"
)

type HandlerManager struct {
	sessionHandler *SessionHandler
	resumeHandler  *ResumeHandler
	reportHandler  *ReportHandler
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *utils.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		sessionHandler: NewSessionHandler(serviceManager.Session(), validator, logger),
		resumeHandler:  NewResumeHandler(serviceManager.Resume(), logger),
		reportHandler:  NewReportHandler(serviceManager.Report(), serviceManager.Export(), logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	// Health check endpoint
	router.GET("/health", HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(authMiddleware)
	{
		// Session routes
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", hm.sessionHandler.StartSession)
			sessions.GET("", hm.sessionHandler.ListSessions)
			sessions.GET("/:id", hm.sessionHandler.GetSession)
			sessions.GET("/:id/turn", hm.sessionHandler.GetTurn)
			sessions.GET("/:id/save-status", hm.sessionHandler.GetSaveStatus)

			// Turn event ingestion
			sessions.POST("/:id/permission", hm.sessionHandler.SetPermission)
			sessions.POST("/:id/tick", hm.sessionHandler.Tick)
			sessions.POST("/:id/playback/finished", hm.sessionHandler.PlaybackFinished)
			sessions.POST("/:id/playback/skip", hm.sessionHandler.SkipPlayback)
			sessions.POST("/:id/recording", hm.sessionHandler.SubmitRecording)
			sessions.POST("/:id/repeat", hm.sessionHandler.RepeatPrompt)
			sessions.POST("/:id/follow-up", hm.sessionHandler.StartFollowUp)
			sessions.POST("/:id/advance", hm.sessionHandler.Advance)
			sessions.POST("/:id/end", hm.sessionHandler.EndSession)
		}

		// Resume routes
		resumes := v1.Group("/resumes")
		{
			resumes.POST("", hm.resumeHandler.UploadResume)
			resumes.GET("/latest", hm.resumeHandler.GetLatestResume)
			resumes.GET("/:id", hm.resumeHandler.GetResume)
		}

		// Report routes
		reports := v1.Group("/reports")
		{
			reports.GET("/:session_id", hm.reportHandler.GetReport)
			reports.GET("/:session_id/export", hm.reportHandler.ExportReport)
		}
	}
}
