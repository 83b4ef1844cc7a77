package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/straye-as/chirps-api/internal/auth"
	"github.com/straye-as/chirps-api/internal/domain"
	"github.com/straye-as/chirps-api/internal/mapper"
	"github.com/straye-as/chirps-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AuthService registers accounts and issues access tokens
type AuthService struct {
	userRepo *repository.UserRepository
	hasher   *auth.PasswordHasher
	tokens   *auth.TokenManager
	logger   *zap.Logger
}

// NewAuthService creates a new AuthService instance
func NewAuthService(
	userRepo *repository.UserRepository,
	hasher *auth.PasswordHasher,
	tokens *auth.TokenManager,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger,
	}
}

// Register creates an account and signs the new user in
func (s *AuthService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrInvalidName
	}

	exists, err := s.userRepo.EmailExists(ctx, req.Email, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Name:         name,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered",
		zap.String("userID", user.ID.String()),
	)

	return s.issue(user)
}

// Login verifies credentials. Unknown emails and wrong passwords fail the same way.
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Info("login rejected", zap.String("userID", user.ID.String()))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}

	return s.issue(user)
}

// Me returns the account of the authenticated user
func (s *AuthService) Me(ctx context.Context) (*domain.UserDTO, error) {
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

	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

func (s *AuthService) issue(user *domain.User) (*domain.AuthResponse, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID, user.Name, user.Email)
	if err != nil {
		return nil, err
	}

	return &domain.AuthResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: mapper.FormatTime(expiresAt),
		User:      mapper.ToUserDTO(user),
	}, nil
}
