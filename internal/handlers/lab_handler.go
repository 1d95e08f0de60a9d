package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/steamlab-platform/lab-service/internal/models"
	"github.com/steamlab-platform/lab-service/internal/repositories"
	"github.com/steamlab-platform/lab-service/internal/services"
	"github.com/steamlab-platform/lab-service/internal/utils"
)

type LabHandler struct {
	BaseHandler
	service services.LabService
}

func NewLabHandler(service services.LabService, logger utils.Logger) *LabHandler {
	return &LabHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

func (h *LabHandler) CreateLab(c *gin.Context) {
	var req services.LabCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	lab, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, lab)
}

func (h *LabHandler) GetLab(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	lab, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, lab)
}

func (h *LabHandler) ListLabs(c *gin.Context) {
	filters := repositories.LabFilters{
		Query:  c.Query("q"),
		Limit:  queryInt(c, "limit", 20),
		Offset: queryInt(c, "offset", 0),
	}
	if schoolID := queryInt(c, "school_id", 0); schoolID > 0 {
		id := uint(schoolID)
		filters.SchoolID = &id
	}

	resp, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *LabHandler) UpdateLab(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.LabUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	lab, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, lab)
}

func (h *LabHandler) DeleteLab(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Lab deleted"})
}
