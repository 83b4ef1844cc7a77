package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/straye-as/chirps-api/internal/domain"
	"gorm.io/gorm"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	return r.db.WithContext(ctx).Omit("Chirp", "User").Create(comment).Error
}

func (r *CommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	var comment domain.Comment
	err := r.db.WithContext(ctx).Preload("User").First(&comment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByChirp returns the comments on a chirp with their authors, newest first
func (r *CommentRepository) ListByChirp(ctx context.Context, chirpID uuid.UUID) ([]domain.Comment, error) {
	var comments []domain.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("chirp_id = ?", chirpID).
		Order("created_at DESC").
		Find(&comments).Error
	return comments, err
}
