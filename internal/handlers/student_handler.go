package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/steamlab-platform/lab-service/internal/models"
	"github.com/steamlab-platform/lab-service/internal/repositories"
	"github.com/steamlab-platform/lab-service/internal/services"
	"github.com/steamlab-platform/lab-service/internal/utils"
)

type StudentHandler struct {
	BaseHandler
	service services.StudentService
}

func NewStudentHandler(service services.StudentService, logger utils.Logger) *StudentHandler {
	return &StudentHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// BulkCreateStudents creates a batch of student accounts in a lab
// @Summary Bulk create students
// @Tags students
// @Accept json
// @Produce json
// @Param lab_id path int true "Lab ID"
// @Param students body services.BulkStudentCreateRequest true "Students"
// @Success 201 {array} models.User
// @Failure 409 {object} models.ErrorResponse "Duplicate mobile numbers"
// @Router /labs/{lab_id}/students [post]
func (h *StudentHandler) BulkCreateStudents(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	labID, ok := parseIDParam(c, "lab_id")
	if !ok {
		return
	}

	var req services.BulkStudentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "bulk creating students", "lab_id", labID, "count", len(req.Students))

	students, err := h.service.BulkCreateStudents(c.Request.Context(), actorID, labID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, students)
}

func (h *StudentHandler) ListByLab(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	labID, ok := parseIDParam(c, "lab_id")
	if !ok {
		return
	}

	filters := repositories.StudentFilters{
		Query: c.Query("q"),
	}
	if standard := queryInt(c, "standard", 0); standard > 0 {
		filters.Standard = &standard
	}
	if section := c.Query("section"); section != "" {
		s := models.LabSection(section)
		filters.Section = &s
	}

	students, err := h.service.ListByLab(c.Request.Context(), actorID, labID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, students)
}

func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	studentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.StudentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	student, err := h.service.UpdateStudent(c.Request.Context(), actorID, studentID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

// SearchStudents searches students across the platform. Administrative only.
func (h *StudentHandler) SearchStudents(c *gin.Context) {
	filters := repositories.UserFilters{
		Query:  c.Query("q"),
		Limit:  queryInt(c, "limit", 20),
		Offset: queryInt(c, "offset", 0),
	}
	if schoolID := queryInt(c, "school_id", 0); schoolID > 0 {
		id := uint(schoolID)
		filters.SchoolID = &id
	}
	if labID := queryInt(c, "lab_id", 0); labID > 0 {
		id := uint(labID)
		filters.LabID = &id
	}

	students, total, err := h.service.Search(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.PaginatedResponse{
		Items:  students,
		Total:  total,
		Limit:  filters.Limit,
		Offset: filters.Offset,
	})
}
