package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/steamlab-platform/lab-service/internal/models"
	"github.com/steamlab-platform/lab-service/internal/services"
	"github.com/steamlab-platform/lab-service/internal/utils"
)

type EnrollmentHandler struct {
	BaseHandler
	service services.EnrollmentService
}

func NewEnrollmentHandler(service services.EnrollmentService, logger utils.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== COHORTS =====

func (h *EnrollmentHandler) CreateCohort(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	labID, ok := parseIDParam(c, "lab_id")
	if !ok {
		return
	}

	var req services.CohortCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	cohort, err := h.service.CreateCohort(c.Request.Context(), actorID, labID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, cohort)
}

func (h *EnrollmentHandler) GetCohort(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	cohortID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	cohort, err := h.service.GetCohort(c.Request.Context(), actorID, cohortID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, cohort)
}

func (h *EnrollmentHandler) ListCohortsByLab(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	labID, ok := parseIDParam(c, "lab_id")
	if !ok {
		return
	}

	cohorts, err := h.service.ListCohortsByLab(c.Request.Context(), actorID, labID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, cohorts)
}

func (h *EnrollmentHandler) UpdateCohort(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	cohortID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.CohortUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	cohort, err := h.service.UpdateCohort(c.Request.Context(), actorID, cohortID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, cohort)
}

func (h *EnrollmentHandler) DeleteCohort(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	cohortID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteCohort(c.Request.Context(), actorID, cohortID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Cohort deleted"})
}

// ===== ENROLLMENT =====

// EnrollStudents adds a batch of students to a cohort
// @Summary Enroll students
// @Tags enrollments
// @Accept json
// @Produce json
// @Param id path int true "Cohort ID"
// @Param request body services.EnrollStudentsRequest true "Student IDs"
// @Success 200 {object} services.EnrollStudentsResponse
// @Failure 400 {object} models.ErrorResponse "Unknown student ids"
// @Router /cohorts/{id}/enrollments [post]
func (h *EnrollmentHandler) EnrollStudents(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	cohortID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.EnrollStudentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "enrolling students", "cohort_id", cohortID, "count", len(req.StudentIDs))

	resp, err := h.service.EnrollStudents(c.Request.Context(), actorID, cohortID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *EnrollmentHandler) UnenrollStudent(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	enrollmentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.UnenrollStudent(c.Request.Context(), actorID, enrollmentID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Student unenrolled"})
}

// MyEnrollments lists the authenticated student's enrollments.
func (h *EnrollmentHandler) MyEnrollments(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	enrollments, err := h.service.MyEnrollments(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, enrollments)
}

// ===== TEACHER ASSIGNMENT =====

func (h *EnrollmentHandler) AssignTeacher(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	cohortID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.AssignTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.service.AssignTeacher(c.Request.Context(), actorID, cohortID, &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Teacher assigned"})
}

// MyAssignments lists the cohorts assigned to the authenticated teacher.
func (h *EnrollmentHandler) MyAssignments(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	cohorts, err := h.service.MyAssignments(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, cohorts)
}
