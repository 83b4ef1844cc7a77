package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/straye-as/chirps-api/internal/domain"
	"gorm.io/gorm"
)

type ChirpRepository struct {
	db *gorm.DB
}

func NewChirpRepository(db *gorm.DB) *ChirpRepository {
	return &ChirpRepository{db: db}
}

// withRelations eager loads the author, reactions with their users and comments with their authors
func withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("User").
		Preload("Reactions", func(db *gorm.DB) *gorm.DB {
			return db.Order("reactions.created_at ASC")
		}).
		Preload("Reactions.User").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at DESC")
		}).
		Preload("Comments.User")
}

func (r *ChirpRepository) Create(ctx context.Context, chirp *domain.Chirp) error {
	return r.db.WithContext(ctx).Omit("User", "Reactions", "Comments").Create(chirp).Error
}

// GetByID returns the chirp without relations
func (r *ChirpRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Chirp, error) {
	var chirp domain.Chirp
	err := r.db.WithContext(ctx).First(&chirp, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &chirp, nil
}

// GetByIDWithRelations returns the chirp with author, reactions and comments loaded
func (r *ChirpRepository) GetByIDWithRelations(ctx context.Context, id uuid.UUID) (*domain.Chirp, error) {
	var chirp domain.Chirp
	err := withRelations(r.db.WithContext(ctx)).First(&chirp, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &chirp, nil
}

func (r *ChirpRepository) UpdateMessage(ctx context.Context, chirp *domain.Chirp, message string) error {
	return r.db.WithContext(ctx).Model(chirp).Update("message", message).Error
}

// List returns the feed ordered newest first
func (r *ChirpRepository) List(ctx context.Context, page, pageSize int) ([]domain.Chirp, int64, error) {
	var chirps []domain.Chirp
	var total int64

	if err := r.db.WithContext(ctx).Model(&domain.Chirp{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := withRelations(r.db.WithContext(ctx)).
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&chirps).Error

	return chirps, total, err
}

// Delete removes the chirp with its reactions, comments and notifications
func (r *ChirpRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chirp_id = ?", id).Delete(&domain.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("chirp_id = ?", id).Delete(&domain.Reaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("chirp_id = ?", id).Delete(&domain.Comment{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&domain.Chirp{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
