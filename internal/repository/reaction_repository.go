package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/straye-as/chirps-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReactionRepository struct {
	db *gorm.DB
}

func NewReactionRepository(db *gorm.DB) *ReactionRepository {
	return &ReactionRepository{db: db}
}

// Upsert stores the user's reaction on a chirp, replacing any previous type.
// changed is true when the reaction was created or its type differs from the stored one.
func (r *ReactionRepository) Upsert(ctx context.Context, reaction *domain.Reaction) (changed bool, err error) {
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Reaction
		err := tx.Where("chirp_id = ? AND user_id = ?", reaction.ChirpID, reaction.UserID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			changed = true
			return tx.Omit("Chirp", "User").
				Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "chirp_id"}, {Name: "user_id"}},
					DoUpdates: clause.AssignmentColumns([]string{"type", "updated_at"}),
				}).
				Create(reaction).Error
		}
		if err != nil {
			return err
		}

		if existing.Type == reaction.Type {
			*reaction = existing
			return nil
		}

		changed = true
		if err := tx.Model(&existing).Update("type", reaction.Type).Error; err != nil {
			return err
		}
		existing.Type = reaction.Type
		*reaction = existing
		return nil
	})
	return changed, err
}

// GetByChirpAndUser returns a user's reaction on a chirp with the chirp preloaded
func (r *ReactionRepository) GetByChirpAndUser(ctx context.Context, chirpID, userID uuid.UUID) (*domain.Reaction, error) {
	var reaction domain.Reaction
	err := r.db.WithContext(ctx).
		Preload("Chirp").
		Where("chirp_id = ? AND user_id = ?", chirpID, userID).
		First(&reaction).Error
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

// ListByChirp returns all reactions on a chirp with the reacting users, oldest first
func (r *ReactionRepository) ListByChirp(ctx context.Context, chirpID uuid.UUID) ([]domain.Reaction, error) {
	var reactions []domain.Reaction
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("chirp_id = ?", chirpID).
		Order("created_at ASC").
		Find(&reactions).Error
	return reactions, err
}

// DeleteByChirpAndUser removes the user's reaction; gorm.ErrRecordNotFound when there was none
func (r *ReactionRepository) DeleteByChirpAndUser(ctx context.Context, chirpID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("chirp_id = ? AND user_id = ?", chirpID, userID).
		Delete(&domain.Reaction{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
