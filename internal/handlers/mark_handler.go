package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/steamlab-platform/lab-service/internal/models"
	"github.com/steamlab-platform/lab-service/internal/services"
	"github.com/steamlab-platform/lab-service/internal/utils"
)

type MarkHandler struct {
	BaseHandler
	service services.MarkService
}

func NewMarkHandler(service services.MarkService, logger utils.Logger) *MarkHandler {
	return &MarkHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

func (h *MarkHandler) AddMark(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	enrollmentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.MarkCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	mark, err := h.service.AddMark(c.Request.Context(), actorID, enrollmentID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, mark)
}

func (h *MarkHandler) ListMarks(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	enrollmentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	marks, err := h.service.ListMarks(c.Request.Context(), actorID, enrollmentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, marks)
}

func (h *MarkHandler) UpdateMark(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	markID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.MarkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	mark, err := h.service.UpdateMark(c.Request.Context(), actorID, markID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, mark)
}

// MyMarks lists the authenticated student's recent marks.
func (h *MarkHandler) MyMarks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	limit := queryInt(c, "limit", 0)

	marks, err := h.service.MyMarks(c.Request.Context(), userID, limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, marks)
}
