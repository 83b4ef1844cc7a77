package handler

import (
	"errors"
	"net/http"

	"github.com/straye-as/chirps-api/internal/domain"
	"github.com/straye-as/chirps-api/internal/service"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
	logger           *zap.Logger
}

func NewDashboardHandler(dashboardService *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// GetStats godoc
// @Summary Get dashboard statistics
// @Description Engagement statistics for the caller's chirps. Activity by the caller is not counted as received.
// @Description
// @Description - `numberOfPosts`, `reactionsReceived`, `commentsReceived`: totals
// @Description - `latestComments`: the 5 newest comments by others
// @Description - `topReactors` / `topCommenters`: top 3 other users, count desc then name asc
// @Description - `dailyStats`: the last 7 UTC days, oldest first, today included
// @Tags Dashboard
// @Produce json
// @Success 200 {object} domain.DashboardStats
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /dashboard/stats [get]
func (h *DashboardHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardService.GetStats(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrUserContextRequired) {
			handleServiceError(w, h.logger, err, "")
			return
		}
		h.logger.Error("failed to fetch dashboard statistics", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error: "Failed to fetch dashboard statistics",
		})
		return
	}

	respondJSON(w, http.StatusOK, stats)
}
