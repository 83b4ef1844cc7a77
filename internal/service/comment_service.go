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

// CommentService handles business logic for comments
type CommentService struct {
	commentRepo   *repository.CommentRepository
	chirpRepo     *repository.ChirpRepository
	notifications *NotificationService
	invalidator   DashboardInvalidator
	logger        *zap.Logger
}

// NewCommentService creates a new CommentService instance
func NewCommentService(
	commentRepo *repository.CommentRepository,
	chirpRepo *repository.ChirpRepository,
	notifications *NotificationService,
	invalidator DashboardInvalidator,
	logger *zap.Logger,
) *CommentService {
	return &CommentService{
		commentRepo:   commentRepo,
		chirpRepo:     chirpRepo,
		notifications: notifications,
		invalidator:   invalidator,
		logger:        logger,
	}
}

// Create adds a comment by the current user and notifies the chirp owner
func (s *CommentService) Create(ctx context.Context, chirpID uuid.UUID, req *domain.CreateCommentRequest) (*domain.CommentDTO, error) {
	userCtx, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	content, err := normalizeMessage(req.Content)
	if err != nil {
		return nil, err
	}

	chirp, err := s.getChirp(ctx, chirpID)
	if err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		ChirpID: chirp.ID,
		UserID:  userCtx.UserID,
		Content: content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	metrics.RecordCommentCreated()
	s.invalidate(ctx, chirp.UserID)

	if s.notifications != nil {
		if _, err := s.notifications.NotifyComment(ctx, chirp, userCtx.UserID); err != nil {
			s.logger.Error("failed to notify chirp owner of comment",
				zap.String("chirpID", chirp.ID.String()),
				zap.Error(err),
			)
		}
	}

	stored, err := s.commentRepo.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load comment: %w", err)
	}

	s.logger.Info("comment created",
		zap.String("commentID", stored.ID.String()),
		zap.String("chirpID", chirp.ID.String()),
		zap.String("userID", userCtx.UserID.String()),
	)

	dto := mapper.ToCommentDTO(stored)
	return &dto, nil
}

// List returns the comments on a chirp, newest first
func (s *CommentService) List(ctx context.Context, chirpID uuid.UUID) ([]domain.CommentDTO, error) {
	if _, err := currentUser(ctx); err != nil {
		return nil, err
	}
	if _, err := s.getChirp(ctx, chirpID); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByChirp(ctx, chirpID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return mapper.ToCommentDTOs(comments), nil
}

func (s *CommentService) getChirp(ctx context.Context, id uuid.UUID) (*domain.Chirp, error) {
	chirp, err := s.chirpRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChirpNotFound
		}
		return nil, fmt.Errorf("failed to get chirp: %w", err)
	}
	return chirp, nil
}

func (s *CommentService) invalidate(ctx context.Context, userIDs ...uuid.UUID) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, userIDs...)
	}
}
