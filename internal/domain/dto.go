package domain

import (
	"github.com/google/uuid"
)

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// MessageResponse is returned by endpoints that only confirm an action
type MessageResponse struct {
	Message string `json:"message"`
}

type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// User DTOs

// UserSummaryDTO is the public subset of a user embedded in other resources
type UserSummaryDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	HasAvatar bool      `json:"hasAvatar"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	CreatedAt string    `json:"createdAt"`
	UpdatedAt string    `json:"updatedAt"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned after a successful register or login
type AuthResponse struct {
	Token     string  `json:"token"`
	TokenType string  `json:"tokenType"`
	ExpiresAt string  `json:"expiresAt"`
	User      UserDTO `json:"user"`
}

type UpdateProfileRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Email *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
}

type DeleteAccountRequest struct {
	Password string `json:"password" validate:"required"`
}

// Chirp DTOs

type ChirpDTO struct {
	ID             uuid.UUID      `json:"id"`
	Message        string         `json:"message"`
	User           UserSummaryDTO `json:"user"`
	Reactions      []ReactionDTO  `json:"reactions"`
	ReactionCounts map[string]int `json:"reactionCounts"`
	MyReaction     string         `json:"myReaction,omitempty"`
	Comments       []CommentDTO   `json:"comments"`
	CommentCount   int            `json:"commentCount"`
	Edited         bool           `json:"edited"`
	CreatedAt      string         `json:"createdAt"`
	UpdatedAt      string         `json:"updatedAt"`
}

type CreateChirpRequest struct {
	Message string `json:"message" validate:"required,max=255"`
}

type UpdateChirpRequest struct {
	Message string `json:"message" validate:"required,max=255"`
}

// ChirpResponse wraps a chirp with a confirmation message
type ChirpResponse struct {
	Message string   `json:"message"`
	Chirp   ChirpDTO `json:"chirp"`
}

// Reaction DTOs

type ReactionDTO struct {
	ID        uuid.UUID      `json:"id"`
	ChirpID   uuid.UUID      `json:"chirpId"`
	UserID    uuid.UUID      `json:"userId"`
	User      UserSummaryDTO `json:"user"`
	Type      string         `json:"type"`
	CreatedAt string         `json:"createdAt"`
	UpdatedAt string         `json:"updatedAt"`
}

type ReactRequest struct {
	Type string `json:"type" validate:"required,oneof=like love sad wow angry"`
}

// ReactionsResponse lists every reaction on a chirp
type ReactionsResponse struct {
	Reactions []ReactionDTO `json:"reactions"`
}

// Comment DTOs

type CommentDTO struct {
	ID        uuid.UUID      `json:"id"`
	ChirpID   uuid.UUID      `json:"chirpId"`
	UserID    uuid.UUID      `json:"userId"`
	User      UserSummaryDTO `json:"user"`
	Content   string         `json:"content"`
	CreatedAt string         `json:"createdAt"`
}

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,max=255"`
}

type CommentResponse struct {
	Comment CommentDTO `json:"comment"`
}

type CommentsResponse struct {
	Comments []CommentDTO `json:"comments"`
}

// Notification DTOs

type NotificationDTO struct {
	ID           uuid.UUID       `json:"id"`
	Type         string          `json:"type"`
	ChirpID      uuid.UUID       `json:"chirpId"`
	Notifier     *UserSummaryDTO `json:"notifier,omitempty"`
	ReactionType string          `json:"reactionType,omitempty"`
	Message      string          `json:"message"`
	Read         bool            `json:"read"`
	ReadAt       string          `json:"readAt,omitempty"`
	CreatedAt    string          `json:"createdAt"` // ISO 8601
}

// UnreadCountDTO represents the count of unread notifications
type UnreadCountDTO struct {
	Count int `json:"count"`
}

// PurgeResultDTO reports how many notifications a purge removed
type PurgeResultDTO struct {
	Deleted int64 `json:"deleted"`
}

// Dashboard DTOs
//
// Field names follow the snake/camel mix the dashboard frontend already consumes.

type LatestCommentDTO struct {
	User      string `json:"user"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

type TopReactorDTO struct {
	Name           string `json:"name"`
	ReactionsCount int64  `json:"reactions_count"`
}

type TopCommenterDTO struct {
	Name          string `json:"name"`
	CommentsCount int64  `json:"comments_count"`
}

type DailyStatsDTO struct {
	Dates     []string `json:"dates"`
	Posts     []int64  `json:"posts"`
	Reactions []int64  `json:"reactions"`
	Comments  []int64  `json:"comments"`
}

type DashboardStats struct {
	NumberOfPosts     int64              `json:"numberOfPosts"`
	ReactionsReceived int64              `json:"reactionsReceived"`
	CommentsReceived  int64              `json:"commentsReceived"`
	LatestComments    []LatestCommentDTO `json:"latestComments"`
	TopReactors       []TopReactorDTO    `json:"topReactors"`
	TopCommenters     []TopCommenterDTO  `json:"topCommenters"`
	DailyStats        DailyStatsDTO      `json:"dailyStats"`
}
