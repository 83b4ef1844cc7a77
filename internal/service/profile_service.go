package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/straye-as/chirps-api/internal/auth"
	"github.com/straye-as/chirps-api/internal/domain"
	"github.com/straye-as/chirps-api/internal/mapper"
	"github.com/straye-as/chirps-api/internal/repository"
	"github.com/straye-as/chirps-api/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// avatarTypes maps the accepted sniffed content types to their file extension
var avatarTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ProfileService manages the current user's account
type ProfileService struct {
	userRepo       *repository.UserRepository
	hasher         *auth.PasswordHasher
	storage        storage.Storage
	invalidator    DashboardInvalidator
	maxAvatarBytes int64
	logger         *zap.Logger
}

// NewProfileService creates a new ProfileService instance
func NewProfileService(
	userRepo *repository.UserRepository,
	hasher *auth.PasswordHasher,
	store storage.Storage,
	invalidator DashboardInvalidator,
	maxAvatarBytes int64,
	logger *zap.Logger,
) *ProfileService {
	return &ProfileService{
		userRepo:       userRepo,
		hasher:         hasher,
		storage:        store,
		invalidator:    invalidator,
		maxAvatarBytes: maxAvatarBytes,
		logger:         logger,
	}
}

// Get returns the current user's account
func (s *ProfileService) Get(ctx context.Context) (*domain.UserDTO, error) {
	user, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

// Update changes the name and/or email of the current user
func (s *ProfileService) Update(ctx context.Context, req *domain.UpdateProfileRequest) (*domain.UserDTO, error) {
	user, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	renamed := false
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrInvalidName
		}
		renamed = name != user.Name
		user.Name = name
	}

	if req.Email != nil {
		exists, err := s.userRepo.EmailExists(ctx, *req.Email, user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if exists {
			return nil, ErrEmailTaken
		}
		user.Email = *req.Email
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	// Other users' dashboards show this name in their top lists and latest comments
	if renamed {
		s.invalidateAudience(ctx, user.ID)
	}

	s.logger.Info("profile updated", zap.String("userID", user.ID.String()))

	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

// ChangePassword replaces the password after confirming the current one
func (s *ProfileService) ChangePassword(ctx context.Context, req *domain.UpdatePasswordRequest) error {
	user, err := s.current(ctx)
	if err != nil {
		return err
	}

	if err := s.verify(user, req.CurrentPassword); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Info("password changed", zap.String("userID", user.ID.String()))
	return nil
}

// Delete removes the current account and everything attached to it
func (s *ProfileService) Delete(ctx context.Context, password string) error {
	user, err := s.current(ctx)
	if err != nil {
		return err
	}

	if err := s.verify(user, password); err != nil {
		return err
	}

	// Collected before the delete removes the reactions and comments that link them
	audience, err := s.userRepo.InteractedChirpOwners(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to find affected dashboards: %w", err)
	}

	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if user.AvatarPath != nil && s.storage != nil {
		if err := s.storage.Delete(ctx, *user.AvatarPath); err != nil {
			s.logger.Warn("failed to delete avatar of removed user",
				zap.String("userID", user.ID.String()),
				zap.Error(err),
			)
		}
	}
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, append(audience, user.ID)...)
	}

	s.logger.Info("account deleted", zap.String("userID", user.ID.String()))
	return nil
}

// UploadAvatar stores a new avatar image for the current user.
// The content type is detected from the data, not taken from the client.
func (s *ProfileService) UploadAvatar(ctx context.Context, data io.Reader) (*domain.UserDTO, error) {
	user, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	limit := s.maxAvatarBytes
	if limit <= 0 {
		limit = 5 << 20
	}
	buf, err := io.ReadAll(io.LimitReader(data, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read avatar: %w", err)
	}
	if int64(len(buf)) > limit {
		return nil, ErrAvatarTooLarge
	}
	if len(buf) == 0 {
		return nil, ErrUnsupportedAvatarType
	}

	contentType := http.DetectContentType(buf)
	ext, ok := avatarTypes[contentType]
	if !ok {
		return nil, ErrUnsupportedAvatarType
	}

	key := fmt.Sprintf("avatars/%s/%s%s", user.ID, uuid.New(), ext)
	if _, err := s.storage.Put(ctx, key, contentType, bytes.NewReader(buf)); err != nil {
		return nil, fmt.Errorf("failed to store avatar: %w", err)
	}

	if err := s.userRepo.UpdateAvatar(ctx, user.ID, key, contentType); err != nil {
		_ = s.storage.Delete(ctx, key)
		return nil, fmt.Errorf("failed to save avatar: %w", err)
	}

	if user.AvatarPath != nil {
		if err := s.storage.Delete(ctx, *user.AvatarPath); err != nil {
			s.logger.Warn("failed to delete previous avatar",
				zap.String("userID", user.ID.String()),
				zap.String("key", *user.AvatarPath),
				zap.Error(err),
			)
		}
	}

	user.AvatarPath = &key
	user.AvatarType = &contentType

	s.logger.Info("avatar uploaded",
		zap.String("userID", user.ID.String()),
		zap.String("contentType", contentType),
		zap.Int("bytes", len(buf)),
	)

	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

// GetAvatar opens the avatar of any user. The caller must close the reader.
func (s *ProfileService) GetAvatar(ctx context.Context, userID uuid.UUID) (io.ReadCloser, string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}
	if user.AvatarPath == nil {
		return nil, "", ErrAvatarNotFound
	}

	body, err := s.storage.Get(ctx, *user.AvatarPath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, "", ErrAvatarNotFound
		}
		return nil, "", fmt.Errorf("failed to open avatar: %w", err)
	}

	contentType := "application/octet-stream"
	if user.AvatarType != nil {
		contentType = *user.AvatarType
	}
	return body, contentType, nil
}

// invalidateAudience drops the cached dashboards of everyone whose chirps userID interacted with
func (s *ProfileService) invalidateAudience(ctx context.Context, userID uuid.UUID) {
	if s.invalidator == nil {
		return
	}
	owners, err := s.userRepo.InteractedChirpOwners(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to find affected dashboards", zap.String("userID", userID.String()), zap.Error(err))
		return
	}
	s.invalidator.Invalidate(ctx, owners...)
}

func (s *ProfileService) current(ctx context.Context) (*domain.User, error) {
	userCtx, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *ProfileService) verify(user *domain.User, password string) error {
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return ErrIncorrectPassword
		}
		return fmt.Errorf("failed to verify password: %w", err)
	}
	return nil
}
