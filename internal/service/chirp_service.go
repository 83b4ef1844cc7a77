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

// ChirpService handles business logic for chirps
type ChirpService struct {
	chirpRepo   *repository.ChirpRepository
	invalidator DashboardInvalidator
	logger      *zap.Logger
}

// NewChirpService creates a new ChirpService instance
func NewChirpService(chirpRepo *repository.ChirpRepository, invalidator DashboardInvalidator, logger *zap.Logger) *ChirpService {
	return &ChirpService{
		chirpRepo:   chirpRepo,
		invalidator: invalidator,
		logger:      logger,
	}
}

// List returns the feed, newest first, rendered for the current user
func (s *ChirpService) List(ctx context.Context, page, pageSize int) (*domain.PaginatedResponse, error) {
	userCtx, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	page, pageSize = clampPagination(page, pageSize)

	chirps, total, err := s.chirpRepo.List(ctx, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list chirps: %w", err)
	}

	dtos := make([]domain.ChirpDTO, len(chirps))
	for i := range chirps {
		dtos[i] = mapper.ToChirpDTO(&chirps[i], userCtx.UserID)
	}

	return paginated(dtos, total, page, pageSize), nil
}

// GetByID returns a single chirp with its relations
func (s *ChirpService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ChirpDTO, error) {
	userCtx, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	chirp, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	dto := mapper.ToChirpDTO(chirp, userCtx.UserID)
	return &dto, nil
}

// Create posts a new chirp for the current user
func (s *ChirpService) Create(ctx context.Context, req *domain.CreateChirpRequest) (*domain.ChirpDTO, error) {
	userCtx, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	message, err := normalizeMessage(req.Message)
	if err != nil {
		return nil, err
	}

	chirp := &domain.Chirp{
		UserID:  userCtx.UserID,
		Message: message,
	}
	if err := s.chirpRepo.Create(ctx, chirp); err != nil {
		return nil, fmt.Errorf("failed to create chirp: %w", err)
	}
	metrics.RecordChirpCreated()
	s.invalidate(ctx, userCtx.UserID)

	s.logger.Info("chirp created",
		zap.String("chirpID", chirp.ID.String()),
		zap.String("userID", userCtx.UserID.String()),
	)

	return s.render(ctx, chirp.ID, userCtx.UserID)
}

// Update replaces the message of a chirp owned by the current user
func (s *ChirpService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateChirpRequest) (*domain.ChirpDTO, error) {
	userCtx, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	message, err := normalizeMessage(req.Message)
	if err != nil {
		return nil, err
	}

	chirp, err := s.chirpRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChirpNotFound
		}
		return nil, fmt.Errorf("failed to get chirp: %w", err)
	}
	if chirp.UserID != userCtx.UserID {
		return nil, ErrNotChirpOwner
	}

	if err := s.chirpRepo.UpdateMessage(ctx, chirp, message); err != nil {
		return nil, fmt.Errorf("failed to update chirp: %w", err)
	}

	s.logger.Info("chirp updated",
		zap.String("chirpID", chirp.ID.String()),
		zap.String("userID", userCtx.UserID.String()),
	)

	return s.render(ctx, chirp.ID, userCtx.UserID)
}

// Delete removes a chirp owned by the current user together with its reactions, comments and notifications
func (s *ChirpService) Delete(ctx context.Context, id uuid.UUID) error {
	userCtx, err := currentUser(ctx)
	if err != nil {
		return err
	}

	chirp, err := s.chirpRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrChirpNotFound
		}
		return fmt.Errorf("failed to get chirp: %w", err)
	}
	if chirp.UserID != userCtx.UserID {
		return ErrNotChirpOwner
	}

	if err := s.chirpRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrChirpNotFound
		}
		return fmt.Errorf("failed to delete chirp: %w", err)
	}
	s.invalidate(ctx, userCtx.UserID)

	s.logger.Info("chirp deleted",
		zap.String("chirpID", id.String()),
		zap.String("userID", userCtx.UserID.String()),
	)
	return nil
}

func (s *ChirpService) load(ctx context.Context, id uuid.UUID) (*domain.Chirp, error) {
	chirp, err := s.chirpRepo.GetByIDWithRelations(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChirpNotFound
		}
		return nil, fmt.Errorf("failed to get chirp: %w", err)
	}
	return chirp, nil
}

func (s *ChirpService) render(ctx context.Context, id, viewerID uuid.UUID) (*domain.ChirpDTO, error) {
	chirp, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToChirpDTO(chirp, viewerID)
	return &dto, nil
}

func (s *ChirpService) invalidate(ctx context.Context, userIDs ...uuid.UUID) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, userIDs...)
	}
}
