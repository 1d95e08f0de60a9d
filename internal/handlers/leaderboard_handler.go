package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/steamlab-platform/lab-service/internal/services"
	"github.com/steamlab-platform/lab-service/internal/utils"
)

type LeaderboardHandler struct {
	BaseHandler
	service services.LeaderboardService
}

func NewLeaderboardHandler(service services.LeaderboardService, logger utils.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// GetLeaderboard returns platform-wide rankings
// @Summary Leaderboard
// @Tags leaderboard
// @Produce json
// @Param type query string false "student or project (default: student)"
// @Param period query string false "month, year or all_time (default: all_time)"
// @Success 200 {object} services.Leaderboard
// @Failure 400 {object} models.ErrorResponse
// @Router /leaderboard [get]
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	kind := services.LeaderboardType(c.DefaultQuery("type", string(services.LeaderboardStudents)))
	period := services.LeaderboardPeriod(c.DefaultQuery("period", string(services.PeriodAllTime)))

	board, err := h.service.GetLeaderboard(c.Request.Context(), kind, period)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, board)
}
