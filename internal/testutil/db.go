// Package testutil provides isolated in-memory databases and fixtures for package tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/straye-as/chirps-api/internal/database"
	"github.com/straye-as/chirps-api/internal/domain"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestPassword is the plain-text password of every user created by CreateTestUser
const TestPassword = "password123"

// SetupTestDB opens a fresh sqlite in-memory database with the schema migrated.
// Every call gets its own database so tests never share rows.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

// CreateTestUser creates a user whose password is TestPassword
func CreateTestUser(t *testing.T, db *gorm.DB, name string) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := &domain.User{
		Name:         name,
		Email:        strings.ToLower(fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8])),
		PasswordHash: string(hash),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTestChirp creates a chirp authored by the user
func CreateTestChirp(t *testing.T, db *gorm.DB, userID uuid.UUID, message string) *domain.Chirp {
	t.Helper()

	chirp := &domain.Chirp{UserID: userID, Message: message}
	require.NoError(t, db.Omit("User", "Reactions", "Comments").Create(chirp).Error)
	return chirp
}

// CreateTestReaction creates a reaction without going through the upsert path
func CreateTestReaction(t *testing.T, db *gorm.DB, chirpID, userID uuid.UUID, reactionType domain.ReactionType) *domain.Reaction {
	t.Helper()

	reaction := &domain.Reaction{ChirpID: chirpID, UserID: userID, Type: reactionType}
	require.NoError(t, db.Omit("Chirp", "User").Create(reaction).Error)
	return reaction
}

// CreateTestComment creates a comment on a chirp
func CreateTestComment(t *testing.T, db *gorm.DB, chirpID, userID uuid.UUID, content string) *domain.Comment {
	t.Helper()

	comment := &domain.Comment{ChirpID: chirpID, UserID: userID, Content: content}
	require.NoError(t, db.Omit("Chirp", "User").Create(comment).Error)
	return comment
}

// CreateTestNotification creates a notification for the recipient
func CreateTestNotification(t *testing.T, db *gorm.DB, recipientID, notifierID, chirpID uuid.UUID, notificationType domain.NotificationType, read bool) *domain.Notification {
	t.Helper()

	notification := &domain.Notification{
		UserID:     recipientID,
		NotifierID: &notifierID,
		Type:       notificationType,
		ChirpID:    chirpID,
	}
	if notificationType == domain.NotificationTypeReaction {
		rt := domain.ReactionLike
		notification.ReactionType = &rt
	}
	require.NoError(t, db.Omit("User", "Notifier", "Chirp").Create(notification).Error)

	if read {
		now := time.Now().UTC()
		require.NoError(t, db.Model(notification).Updates(map[string]interface{}{
			"is_read": true,
			"read_at": now,
		}).Error)
		notification.IsRead = true
		notification.ReadAt = &now
	}
	return notification
}

// SetCreatedAt backdates a row so time-window queries can be exercised
func SetCreatedAt(t *testing.T, db *gorm.DB, model interface{}, id uuid.UUID, createdAt time.Time) {
	t.Helper()

	require.NoError(t, db.Model(model).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"created_at": createdAt.UTC(),
			"updated_at": createdAt.UTC(),
		}).Error)
}
