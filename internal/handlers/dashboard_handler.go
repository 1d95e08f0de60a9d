package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/steamlab-platform/lab-service/internal/services"
	"github.com/steamlab-platform/lab-service/internal/utils"
)

type DashboardHandler struct {
	BaseHandler
	service services.DashboardService
}

func NewDashboardHandler(service services.DashboardService, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// GetLabDashboard returns the aggregated dashboard for one lab
// @Summary Lab dashboard
// @Tags dashboard
// @Produce json
// @Param lab_id path int true "Lab ID"
// @Success 200 {object} services.LabDashboard
// @Failure 403 {object} models.ErrorResponse
// @Router /dashboard/labs/{lab_id} [get]
func (h *DashboardHandler) GetLabDashboard(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	labID, ok := parseIDParam(c, "lab_id")
	if !ok {
		return
	}

	h.LogRequest(c, "getting lab dashboard", "lab_id", labID)

	dash, err := h.service.GetLabDashboard(c.Request.Context(), actorID, labID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dash)
}

// GetMyDashboard returns the authenticated student's personal dashboard.
func (h *DashboardHandler) GetMyDashboard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	dash, err := h.service.GetStudentDashboard(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dash)
}

// GetProjectDashboard returns the platform-wide project dashboard.
func (h *DashboardHandler) GetProjectDashboard(c *gin.Context) {
	dash, err := h.service.GetProjectDashboard(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dash)
}

// GetAdminDashboard returns the platform-wide admin dashboard.
func (h *DashboardHandler) GetAdminDashboard(c *gin.Context) {
	dash, err := h.service.GetAdminDashboard(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dash)
}
