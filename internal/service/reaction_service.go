package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/straye-as/chirps-api/internal/domain"
	"github.com/straye-as/chirps-api/internal/mapper"
	"github.com/straye-as/chirps-api/internal/metrics"
	"github.com/straye-as/chirps-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReactionService handles business logic for reactions
type ReactionService struct {
	reactionRepo  *repository.ReactionRepository
	chirpRepo     *repository.ChirpRepository
	notifications *NotificationService
	invalidator   DashboardInvalidator
	logger        *zap.Logger
}

// NewReactionService creates a new ReactionService instance
func NewReactionService(
	reactionRepo *repository.ReactionRepository,
	chirpRepo *repository.ChirpRepository,
	notifications *NotificationService,
	invalidator DashboardInvalidator,
	logger *zap.Logger,
) *ReactionService {
	return &ReactionService{
		reactionRepo:  reactionRepo,
		chirpRepo:     chirpRepo,
		notifications: notifications,
		invalidator:   invalidator,
		logger:        logger,
	}
}

// React creates or replaces the current user's reaction and returns every reaction on the chirp.
// The chirp owner is notified when the reaction is new or its type changed.
func (s *ReactionService) React(ctx context.Context, chirpID uuid.UUID, reactionType string) ([]domain.ReactionDTO, error) {
	userCtx, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	if !domain.IsValidReactionType(reactionType) {
		return nil, ErrInvalidReactionType
	}

	chirp, err := s.getChirp(ctx, chirpID)
	if err != nil {
		return nil, err
	}

	reaction := &domain.Reaction{
		ChirpID: chirp.ID,
		UserID:  userCtx.UserID,
		Type:    domain.ReactionType(reactionType),
	}
	changed, err := s.reactionRepo.Upsert(ctx, reaction)
	if err != nil {
		return nil, fmt.Errorf("failed to store reaction: %w", err)
	}

	if changed {
		metrics.RecordReaction(reactionType)
		s.invalidate(ctx, chirp.UserID)

		if s.notifications != nil {
			if _, err := s.notifications.NotifyReaction(ctx, chirp, userCtx.UserID, reaction.Type); err != nil {
				s.logger.Error("failed to notify chirp owner of reaction",
					zap.String("chirpID", chirp.ID.String()),
					zap.Error(err),
				)
			}
		}
	}

	s.logger.Debug("reaction stored",
		zap.String("chirpID", chirp.ID.String()),
		zap.String("userID", userCtx.UserID.String()),
		zap.String("type", reactionType),
		zap.Bool("changed", changed),
	)

	return s.list(ctx, chirp.ID)
}

// List returns every reaction on a chirp with the reacting users
func (s *ReactionService) List(ctx context.Context, chirpID uuid.UUID) ([]domain.ReactionDTO, error) {
	if _, err := currentUser(ctx); err != nil {
		return nil, err
	}
	if _, err := s.getChirp(ctx, chirpID); err != nil {
		return nil, err
	}
	return s.list(ctx, chirpID)
}

// Remove deletes the current user's reaction on a chirp
func (s *ReactionService) Remove(ctx context.Context, chirpID uuid.UUID) error {
	userCtx, err := currentUser(ctx)
	if err != nil {
		return err
	}

	reaction, err := s.reactionRepo.GetByChirpAndUser(ctx, chirpID, userCtx.UserID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to get reaction: %w", err)
		}
		if _, err := s.getChirp(ctx, chirpID); err != nil {
			return err
		}
		return ErrReactionNotFound
	}

	if err := s.reactionRepo.DeleteByChirpAndUser(ctx, chirpID, userCtx.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReactionNotFound
		}
		return fmt.Errorf("failed to delete reaction: %w", err)
	}
	if reaction.Chirp != nil {
		s.invalidate(ctx, reaction.Chirp.UserID)
	}
	return nil
}

func (s *ReactionService) getChirp(ctx context.Context, id uuid.UUID) (*domain.Chirp, error) {
	chirp, err := s.chirpRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChirpNotFound
		}
		return nil, fmt.Errorf("failed to get chirp: %w", err)
	}
	return chirp, nil
}

func (s *ReactionService) list(ctx context.Context, chirpID uuid.UUID) ([]domain.ReactionDTO, error) {
	reactions, err := s.reactionRepo.ListByChirp(ctx, chirpID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reactions: %w", err)
	}
	return mapper.ToReactionDTOs(reactions), nil
}

func (s *ReactionService) invalidate(ctx context.Context, userIDs ...uuid.UUID) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, userIDs...)
	}
}
