package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/steamlab-platform/lab-service/internal/models"
	"github.com/steamlab-platform/lab-service/internal/services"
	"github.com/steamlab-platform/lab-service/internal/utils"
)

type TeacherHandler struct {
	BaseHandler
	service services.TeacherService
}

func NewTeacherHandler(service services.TeacherService, logger utils.Logger) *TeacherHandler {
	return &TeacherHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// CreateTeacher creates a teacher or lab head inside a lab
// @Summary Create teacher
// @Tags teachers
// @Accept json
// @Produce json
// @Param lab_id path int true "Lab ID"
// @Param teacher body services.TeacherCreateRequest true "Teacher data"
// @Success 201 {object} models.User
// @Failure 403 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /labs/{lab_id}/teachers [post]
func (h *TeacherHandler) CreateTeacher(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	labID, ok := parseIDParam(c, "lab_id")
	if !ok {
		return
	}

	var req services.TeacherCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	teacher, err := h.service.CreateTeacher(c.Request.Context(), actorID, labID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, teacher)
}

func (h *TeacherHandler) ListByLab(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	labID, ok := parseIDParam(c, "lab_id")
	if !ok {
		return
	}

	teachers, err := h.service.ListByLab(c.Request.Context(), actorID, labID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, teachers)
}

func (h *TeacherHandler) GetTeacher(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	teacher, err := h.service.GetTeacher(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, teacher)
}

func (h *TeacherHandler) UpdateTeacher(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	teacherID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.TeacherUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	teacher, err := h.service.UpdateTeacher(c.Request.Context(), actorID, teacherID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, teacher)
}
