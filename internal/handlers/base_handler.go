package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/steamlab-platform/lab-service/internal/models"
	"github.com/steamlab-platform/lab-service/internal/services"
	"github.com/steamlab-platform/lab-service/internal/utils"
)

// SuccessResponse wraps confirmation messages for mutations without a body.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// BaseHandler carries the pieces every handler needs.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs the start of a handler with the request-scoped logger.
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.GetContextLogger(c, h.logger).Info(msg, args...)
}

// LogError logs a handler failure with the request-scoped logger.
func (h *BaseHandler) LogError(c *gin.Context, msg string, err error, args ...any) {
	utils.GetContextLogger(c, h.logger).Error(msg, append(args, "error", err)...)
}

// parseIDParam reads a positive integer path parameter.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Message: "Invalid path parameter",
			Details: name + " must be a positive integer",
		})
		return 0, false
	}
	return uint(id), true
}

// currentUserID reads the authenticated user's id set by the auth middleware.
func currentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Message: "User not authenticated",
		})
		return 0, false
	}

	id, ok := v.(uint)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Message: "User not authenticated",
		})
		return 0, false
	}
	return id, true
}

// handleServiceError maps service errors onto HTTP status codes.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var invalidStudents *services.InvalidStudentIDsError
	if errors.As(err, &invalidStudents) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Message: "Unknown student ids in request",
			Details: invalidStudents.Error(),
		})
		return
	}

	var duplicateMobiles *services.DuplicateMobilesError
	if errors.As(err, &duplicateMobiles) {
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Message: "Mobile numbers already in use",
			Details: duplicateMobiles.Error(),
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Message: "Unauthorized",
		})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, models.ErrorResponse{
			Message: "Forbidden - insufficient permissions",
		})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Message: "Resource not found",
		})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Message: "Conflict",
			Details: err.Error(),
		})
	default:
		h.LogError(c, "unhandled service error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Message: "Internal server error",
		})
	}
}
