package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/straye-as/chirps-api/internal/domain"
	"github.com/straye-as/chirps-api/internal/mapper"
	"github.com/straye-as/chirps-api/internal/metrics"
	"github.com/straye-as/chirps-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Publisher delivers a message to the open streams of a user
type Publisher interface {
	Publish(userID uuid.UUID, v interface{}) int
}

// NotificationService handles business logic for notifications
type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	publisher        Publisher
	logger           *zap.Logger
	now              func() time.Time
}

// NewNotificationService creates a new NotificationService instance.
// publisher may be nil when realtime delivery is not wired.
func NewNotificationService(
	notificationRepo *repository.NotificationRepository,
	publisher Publisher,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		publisher:        publisher,
		logger:           logger,
		now:              time.Now,
	}
}

// NotifyReaction tells the chirp owner that notifierID reacted.
// Reactions on one's own chirp do not notify.
func (s *NotificationService) NotifyReaction(ctx context.Context, chirp *domain.Chirp, notifierID uuid.UUID, reactionType domain.ReactionType) (*domain.NotificationDTO, error) {
	if chirp.UserID == notifierID {
		return nil, nil
	}
	rt := reactionType
	return s.create(ctx, &domain.Notification{
		UserID:       chirp.UserID,
		NotifierID:   &notifierID,
		Type:         domain.NotificationTypeReaction,
		ChirpID:      chirp.ID,
		ReactionType: &rt,
	})
}

// NotifyComment tells the chirp owner that notifierID commented.
// Comments on one's own chirp do not notify.
func (s *NotificationService) NotifyComment(ctx context.Context, chirp *domain.Chirp, notifierID uuid.UUID) (*domain.NotificationDTO, error) {
	if chirp.UserID == notifierID {
		return nil, nil
	}
	return s.create(ctx, &domain.Notification{
		UserID:     chirp.UserID,
		NotifierID: &notifierID,
		Type:       domain.NotificationTypeComment,
		ChirpID:    chirp.ID,
	})
}

func (s *NotificationService) create(ctx context.Context, notification *domain.Notification) (*domain.NotificationDTO, error) {
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	metrics.RecordNotificationCreated(string(notification.Type))

	// Reload to render the notifier name
	stored, err := s.notificationRepo.GetByID(ctx, notification.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load notification: %w", err)
	}

	dto := mapper.ToNotificationDTO(stored)

	delivered := 0
	if s.publisher != nil {
		delivered = s.publisher.Publish(stored.UserID, dto)
	}

	s.logger.Info("notification created",
		zap.String("notificationID", stored.ID.String()),
		zap.String("userID", stored.UserID.String()),
		zap.String("type", string(stored.Type)),
		zap.Int("streams", delivered),
	)

	return &dto, nil
}

// GetForCurrentUser returns notifications for the current user with pagination
func (s *NotificationService) GetForCurrentUser(
	ctx context.Context,
	page int,
	pageSize int,
	unreadOnly bool,
	notificationType string,
) (*domain.PaginatedResponse, error) {
	userCtx, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	if notificationType != "" &&
		notificationType != string(domain.NotificationTypeReaction) &&
		notificationType != string(domain.NotificationTypeComment) {
		return nil, ErrInvalidNotificationType
	}

	page, pageSize = clampPagination(page, pageSize)

	notifications, total, err := s.notificationRepo.ListByUser(ctx, userCtx.UserID, page, pageSize, unreadOnly, notificationType)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	return paginated(mapper.ToNotificationDTOs(notifications), total, page, pageSize), nil
}

// GetUnreadCount returns the count of unread notifications for the current user
func (s *NotificationService) GetUnreadCount(ctx context.Context) (int, error) {
	userCtx, err := currentUser(ctx)
	if err != nil {
		return 0, err
	}

	count, err := s.notificationRepo.CountUnread(ctx, userCtx.UserID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkAsRead marks a notification as read after verifying ownership.
// Marking an already read notification succeeds.
func (s *NotificationService) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	userCtx, err := currentUser(ctx)
	if err != nil {
		return err
	}

	notification, err := s.notificationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to get notification: %w", err)
	}

	if notification.UserID != userCtx.UserID {
		return ErrNotificationNotOwned
	}

	if err := s.notificationRepo.MarkAsRead(ctx, id); err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	return nil
}

// MarkAllAsRead marks all notifications as read for the current user
func (s *NotificationService) MarkAllAsRead(ctx context.Context) error {
	userCtx, err := currentUser(ctx)
	if err != nil {
		return err
	}

	count, err := s.notificationRepo.MarkAllAsRead(ctx, userCtx.UserID)
	if err != nil {
		return fmt.Errorf("failed to mark all notifications as read: %w", err)
	}

	s.logger.Info("all notifications marked as read",
		zap.String("userID", userCtx.UserID.String()),
		zap.Int64("count", count),
	)
	return nil
}

// PurgeRead deletes read notifications older than retention and returns how many were removed
func (s *NotificationService) PurgeRead(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := s.now().UTC().Add(-retention)

	deleted, err := s.notificationRepo.DeleteReadBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge notifications: %w", err)
	}
	metrics.RecordNotificationsPurged(deleted)

	s.logger.Info("read notifications purged",
		zap.Time("cutoff", cutoff),
		zap.Int64("deleted", deleted),
	)
	return deleted, nil
}
