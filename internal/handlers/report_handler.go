package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mockmate/interview-service/internal/services"
	"github.com/mockmate/interview-service/internal/utils"
)

type ReportHandler struct {
	BaseHandler
	reportService services.ReportService
	exportService services.ExportService
}

func NewReportHandler(
	reportService services.ReportService,
	exportService services.ExportService,
	logger utils.Logger,
) *ReportHandler {
	return &ReportHandler{
		BaseHandler:   NewBaseHandler(logger),
		reportService: reportService,
		exportService: exportService,
	}
}

// GetReport returns the scored report for a finished session. Approximate
// reports carry approximate=true and must be labeled as estimates.
func (h *ReportHandler) GetReport(c *gin.Context) {
	id := ParseStringIDParam(c, "session_id")
	if id == "" {
		return
	}
	userID, ok := CurrentUserID(c)
	if !ok {
		return
	}

	report, err := h.reportService.Get(c.Request.Context(), id, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// ExportReport streams the session transcript and report as an .xlsx file.
func (h *ReportHandler) ExportReport(c *gin.Context) {
	id := ParseStringIDParam(c, "session_id")
	if id == "" {
		return
	}
	userID, ok := CurrentUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Exporting session report", "session_id", id)

	data, err := h.exportService.ExportSessionToExcel(c.Request.Context(), id, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	h.LogInfo(c, "Session report exported", "session_id", id, "bytes", len(data))

	filename := fmt.Sprintf("interview-%s.xlsx", id)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
