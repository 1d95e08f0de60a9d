package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/steamlab-platform/lab-service/internal/services"
	"github.com/steamlab-platform/lab-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	BaseHandler
	service services.ReportService
}

func NewReportHandler(service services.ReportService, logger utils.Logger) *ReportHandler {
	return &ReportHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// GetLabReport returns the full report of one cohort.
func (h *ReportHandler) GetLabReport(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	cohortID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	report, err := h.service.GetLabReport(c.Request.Context(), actorID, cohortID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// ExportLabReport streams the cohort report as an Excel workbook
// @Summary Export lab report
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path int true "Cohort ID"
// @Success 200 {file} binary
// @Failure 403 {object} models.ErrorResponse
// @Router /reports/cohorts/{id}/export [get]
func (h *ReportHandler) ExportLabReport(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	cohortID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	h.LogRequest(c, "exporting lab report", "cohort_id", cohortID)

	data, filename, err := h.service.ExportLabReportXLSX(c.Request.Context(), actorID, cohortID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// GetTopStudents returns the monthly top student ranking.
func (h *ReportHandler) GetTopStudents(c *gin.Context) {
	month := queryInt(c, "month", 0)
	year := queryInt(c, "year", 0)

	report, err := h.service.GetTopStudentReport(c.Request.Context(), month, year)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
