package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/straye-as/chirps-api/internal/domain"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	user.Email = normalizeEmail(user.Email)
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", normalizeEmail(email)).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// EmailExists reports whether another user already owns the email address.
// excludeID may be uuid.Nil when checking for a new registration.
func (r *UserRepository) EmailExists(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&domain.User{}).Where("email = ?", normalizeEmail(email))
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	user.Email = normalizeEmail(user.Email)
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash).Error
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, id uuid.UUID, path, contentType string) error {
	return r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"avatar_path":         path,
			"avatar_content_type": contentType,
		}).Error
}

// InteractedChirpOwners returns the distinct owners of chirps the user reacted to or
// commented on. The user is never part of the result.
func (r *UserRepository) InteractedChirpOwners(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	db := r.db.WithContext(ctx)
	reacted := db.Model(&domain.Reaction{}).Select("chirp_id").Where("user_id = ?", id)
	commented := db.Model(&domain.Comment{}).Select("chirp_id").Where("user_id = ?", id)

	var owners []uuid.UUID
	err := db.Model(&domain.Chirp{}).
		Where("(id IN (?) OR id IN (?)) AND user_id <> ?", reacted, commented, id).
		Distinct().
		Pluck("user_id", &owners).Error
	return owners, err
}

// Delete removes the user together with everything they authored or received
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		chirpIDs := func() *gorm.DB {
			return tx.Model(&domain.Chirp{}).Select("id").Where("user_id = ?", id)
		}

		if err := tx.Where("chirp_id IN (?) OR user_id = ? OR notifier_id = ?", chirpIDs(), id, id).
			Delete(&domain.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("chirp_id IN (?) OR user_id = ?", chirpIDs(), id).
			Delete(&domain.Reaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("chirp_id IN (?) OR user_id = ?", chirpIDs(), id).
			Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&domain.Chirp{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&domain.User{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
