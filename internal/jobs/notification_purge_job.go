package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// NotificationPurgeJobName is the name of the read notification retention job
const NotificationPurgeJobName = "notification_purge"

// NotificationPurger deletes read notifications older than the retention window
type NotificationPurger interface {
	PurgeRead(ctx context.Context, retention time.Duration) (int64, error)
}

// NotificationPurgeJob removes read notifications past their retention
type NotificationPurgeJob struct {
	purger    NotificationPurger
	retention time.Duration
	logger    *zap.Logger
}

// NewNotificationPurgeJob creates a purge job keeping read notifications for retention
func NewNotificationPurgeJob(purger NotificationPurger, retention time.Duration, logger *zap.Logger) *NotificationPurgeJob {
	return &NotificationPurgeJob{
		purger:    purger,
		retention: retention,
		logger:    logger,
	}
}

func (j *NotificationPurgeJob) Name() string {
	return NotificationPurgeJobName
}

// Run deletes the expired notifications once
func (j *NotificationPurgeJob) Run(ctx context.Context) error {
	deleted, err := j.purger.PurgeRead(ctx, j.retention)
	if err != nil {
		return err
	}
	j.logger.Debug("notification purge finished",
		zap.Duration("retention", j.retention),
		zap.Int64("deleted", deleted))
	return nil
}
