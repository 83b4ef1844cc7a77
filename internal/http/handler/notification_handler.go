package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/straye-as/chirps-api/internal/auth"
	"github.com/straye-as/chirps-api/internal/domain"
	"github.com/straye-as/chirps-api/internal/service"
	"go.uber.org/zap"
)

// StreamServer upgrades a request into a push stream for one user
type StreamServer interface {
	Serve(w http.ResponseWriter, r *http.Request, userID uuid.UUID) error
}

// NotificationHandler handles HTTP requests for notifications
type NotificationHandler struct {
	notificationService *service.NotificationService
	streams             StreamServer
	logger              *zap.Logger
}

// NewNotificationHandler creates a new NotificationHandler instance.
// streams may be nil, in which case the stream endpoint answers 503.
func NewNotificationHandler(notificationService *service.NotificationService, streams StreamServer, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		streams:             streams,
		logger:              logger,
	}
}

// List godoc
// @Summary List notifications
// @Description Get paginated list of notifications for the current user, newest first
// @Tags Notifications
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param unreadOnly query bool false "Only unread notifications" default(true)
// @Param type query string false "Filter by notification type" Enums(reaction, comment)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.NotificationDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /notifications [get]
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	unreadOnly := true
	if raw := r.URL.Query().Get("unreadOnly"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "unreadOnly must be true or false",
			})
			return
		}
		unreadOnly = parsed
	}
	notificationType := r.URL.Query().Get("type")

	result, err := h.notificationService.GetForCurrentUser(r.Context(), page, pageSize, unreadOnly, notificationType)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to list notifications")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetUnreadCount godoc
// @Summary Get unread notification count
// @Description Get the count of unread notifications for the current user
// @Tags Notifications
// @Accept json
// @Produce json
// @Success 200 {object} domain.UnreadCountDTO
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /notifications/count [get]
func (h *NotificationHandler) GetUnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.notificationService.GetUnreadCount(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to get unread count")
		return
	}

	respondJSON(w, http.StatusOK, domain.UnreadCountDTO{Count: count})
}

// MarkAsRead godoc
// @Summary Mark notification as read
// @Description Mark a single notification as read. Repeating the call succeeds.
// @Tags Notifications
// @Accept json
// @Produce json
// @Param id path string true "Notification ID" format(uuid)
// @Success 200 {object} domain.MessageResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /notifications/{id}/mark-as-read [patch]
func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "notification")
	if !ok {
		return
	}

	if err := h.notificationService.MarkAsRead(r.Context(), id); err != nil {
		handleServiceError(w, h.logger, err, "Failed to mark notification as read")
		return
	}

	respondMessage(w, http.StatusOK, "Notification marked as read")
}

// MarkAllAsRead godoc
// @Summary Mark all notifications as read
// @Description Mark all notifications for the current user as read
// @Tags Notifications
// @Accept json
// @Produce json
// @Success 204 "No Content"
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /notifications/read-all [put]
func (h *NotificationHandler) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	if err := h.notificationService.MarkAllAsRead(r.Context()); err != nil {
		handleServiceError(w, h.logger, err, "Failed to mark all notifications as read")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Stream godoc
// @Summary Notification stream
// @Description Websocket that receives every new notification for the caller as a JSON NotificationDTO frame.
// @Description Browsers may pass the access token as the token query parameter.
// @Tags Notifications
// @Param token query string false "Access token for clients that cannot set headers"
// @Success 101 "Switching Protocols"
// @Failure 401 {object} domain.ErrorResponse
// @Failure 503 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /notifications/stream [get]
func (h *NotificationHandler) Stream(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.UserFromContext(r.Context())
	if !ok {
		handleServiceError(w, h.logger, service.ErrUserContextRequired, "Authentication required")
		return
	}
	if h.streams == nil {
		respondWithError(w, http.StatusServiceUnavailable, "Notification streaming is not enabled")
		return
	}

	// Upgrade failures are answered by the upgrader itself
	if err := h.streams.Serve(w, r, userCtx.UserID); err != nil {
		h.logger.Debug("notification stream not established",
			zap.String("userID", userCtx.UserID.String()),
			zap.Error(err))
	}
}
