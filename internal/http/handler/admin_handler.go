package handler

import (
	"net/http"
	"time"

	"github.com/straye-as/chirps-api/internal/domain"
	"github.com/straye-as/chirps-api/internal/service"
	"go.uber.org/zap"
)

// AdminHandler exposes maintenance operations to the system principal
type AdminHandler struct {
	notificationService *service.NotificationService
	retention           time.Duration
	logger              *zap.Logger
}

func NewAdminHandler(notificationService *service.NotificationService, retention time.Duration, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		notificationService: notificationService,
		retention:           retention,
		logger:              logger,
	}
}

// PurgeNotifications godoc
// @Summary Purge read notifications
// @Description Deletes read notifications older than the configured retention
// @Tags Admin
// @Produce json
// @Success 200 {object} domain.PurgeResultDTO
// @Failure 401 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 500 {object} domain.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/notifications/purge [post]
func (h *AdminHandler) PurgeNotifications(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.notificationService.PurgeRead(r.Context(), h.retention)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to purge notifications")
		return
	}

	respondJSON(w, http.StatusOK, domain.PurgeResultDTO{Deleted: deleted})
}
