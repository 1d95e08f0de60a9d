package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/steamlab-platform/lab-service/internal/models"
	"github.com/steamlab-platform/lab-service/internal/services"
	"github.com/steamlab-platform/lab-service/internal/utils"
)

type ProjectHandler struct {
	BaseHandler
	service services.ProjectService
}

func NewProjectHandler(service services.ProjectService, logger utils.Logger) *ProjectHandler {
	return &ProjectHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// CreateProject submits a project for the authenticated student
// @Summary Submit project
// @Tags projects
// @Accept json
// @Produce json
// @Param project body services.ProjectCreateRequest true "Project data"
// @Success 201 {object} models.Project
// @Failure 403 {object} models.ErrorResponse "Not enrolled in cohort"
// @Router /projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.ProjectCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	project, err := h.service.CreateProject(c.Request.Context(), actorID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, project)
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	project, err := h.service.GetProject(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) ListByLab(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	labID, ok := parseIDParam(c, "lab_id")
	if !ok {
		return
	}

	projects, err := h.service.ListByLab(c.Request.Context(), actorID, labID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, projects)
}

func (h *ProjectHandler) ListByCohort(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	cohortID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	projects, err := h.service.ListByCohort(c.Request.Context(), actorID, cohortID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, projects)
}

// MyProjects lists the authenticated student's own projects.
func (h *ProjectHandler) MyProjects(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	projects, err := h.service.ListByStudent(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, projects)
}

func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.ProjectUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	project, err := h.service.UpdateProject(c.Request.Context(), actorID, projectID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteProject(c.Request.Context(), actorID, projectID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Project deleted"})
}

// ToggleStar stars or unstars a project for the authenticated user
// @Summary Toggle project star
// @Tags projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} services.StarResponse
// @Router /projects/{id}/star [post]
func (h *ProjectHandler) ToggleStar(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.ToggleStar(c.Request.Context(), actorID, projectID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
