package mapper

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/straye-as/chirps-api/internal/domain"
)

const (
	timeLayout = "2006-01-02T15:04:05Z"

	// UnknownUserName is shown when a related user no longer exists
	UnknownUserName = "Unknown User"
)

// FormatTime renders a timestamp in the API's UTC ISO 8601 layout
func FormatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// ToUserDTO converts User to UserDTO
func ToUserDTO(user *domain.User) domain.UserDTO {
	dto := domain.UserDTO{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		HasAvatar: user.AvatarPath != nil,
		CreatedAt: FormatTime(user.CreatedAt),
		UpdatedAt: FormatTime(user.UpdatedAt),
	}
	if dto.HasAvatar {
		dto.AvatarURL = AvatarURL(user.ID)
	}
	return dto
}

// AvatarURL is the API path serving a user's avatar
func AvatarURL(userID uuid.UUID) string {
	return fmt.Sprintf("/api/v1/users/%s/avatar", userID)
}

// ToUserSummaryDTO converts a possibly missing user to its public summary
func ToUserSummaryDTO(user *domain.User, fallbackID uuid.UUID) domain.UserSummaryDTO {
	if user == nil {
		return domain.UserSummaryDTO{ID: fallbackID, Name: UnknownUserName}
	}
	return domain.UserSummaryDTO{ID: user.ID, Name: user.Name}
}

// ToReactionDTO converts Reaction to ReactionDTO
func ToReactionDTO(reaction *domain.Reaction) domain.ReactionDTO {
	return domain.ReactionDTO{
		ID:        reaction.ID,
		ChirpID:   reaction.ChirpID,
		UserID:    reaction.UserID,
		User:      ToUserSummaryDTO(reaction.User, reaction.UserID),
		Type:      string(reaction.Type),
		CreatedAt: FormatTime(reaction.CreatedAt),
		UpdatedAt: FormatTime(reaction.UpdatedAt),
	}
}

func ToReactionDTOs(reactions []domain.Reaction) []domain.ReactionDTO {
	dtos := make([]domain.ReactionDTO, len(reactions))
	for i := range reactions {
		dtos[i] = ToReactionDTO(&reactions[i])
	}
	return dtos
}

// ToCommentDTO converts Comment to CommentDTO
func ToCommentDTO(comment *domain.Comment) domain.CommentDTO {
	return domain.CommentDTO{
		ID:        comment.ID,
		ChirpID:   comment.ChirpID,
		UserID:    comment.UserID,
		User:      ToUserSummaryDTO(comment.User, comment.UserID),
		Content:   comment.Content,
		CreatedAt: FormatTime(comment.CreatedAt),
	}
}

func ToCommentDTOs(comments []domain.Comment) []domain.CommentDTO {
	dtos := make([]domain.CommentDTO, len(comments))
	for i := range comments {
		dtos[i] = ToCommentDTO(&comments[i])
	}
	return dtos
}

// ToChirpDTO converts Chirp to ChirpDTO as seen by viewerID.
// Comments are ordered newest first and reaction counts include every known type.
func ToChirpDTO(chirp *domain.Chirp, viewerID uuid.UUID) domain.ChirpDTO {
	counts := make(map[string]int, len(domain.ReactionTypes))
	for _, rt := range domain.ReactionTypes {
		counts[string(rt)] = 0
	}

	var myReaction string
	for _, reaction := range chirp.Reactions {
		counts[string(reaction.Type)]++
		if reaction.UserID == viewerID {
			myReaction = string(reaction.Type)
		}
	}

	comments := make([]domain.Comment, len(chirp.Comments))
	copy(comments, chirp.Comments)
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})

	return domain.ChirpDTO{
		ID:             chirp.ID,
		Message:        chirp.Message,
		User:           ToUserSummaryDTO(chirp.User, chirp.UserID),
		Reactions:      ToReactionDTOs(chirp.Reactions),
		ReactionCounts: counts,
		MyReaction:     myReaction,
		Comments:       ToCommentDTOs(comments),
		CommentCount:   len(comments),
		Edited:         chirp.IsEdited(),
		CreatedAt:      FormatTime(chirp.CreatedAt),
		UpdatedAt:      FormatTime(chirp.UpdatedAt),
	}
}

// NotificationMessage renders the sentence shown in the notification bell
func NotificationMessage(notification *domain.Notification) string {
	name := UnknownUserName
	if notification.Notifier != nil && notification.Notifier.Name != "" {
		name = notification.Notifier.Name
	}

	switch notification.Type {
	case domain.NotificationTypeReaction:
		return name + " reacted to your chirp."
	case domain.NotificationTypeComment:
		return name + " commented on your chirp."
	default:
		return name + " interacted with your chirp."
	}
}

// ToNotificationDTO converts Notification to NotificationDTO
func ToNotificationDTO(notification *domain.Notification) domain.NotificationDTO {
	dto := domain.NotificationDTO{
		ID:        notification.ID,
		Type:      string(notification.Type),
		ChirpID:   notification.ChirpID,
		Message:   NotificationMessage(notification),
		Read:      notification.IsRead,
		CreatedAt: FormatTime(notification.CreatedAt),
	}

	if notification.Notifier != nil {
		summary := ToUserSummaryDTO(notification.Notifier, notification.Notifier.ID)
		dto.Notifier = &summary
	}
	if notification.ReactionType != nil {
		dto.ReactionType = string(*notification.ReactionType)
	}
	if notification.ReadAt != nil {
		dto.ReadAt = FormatTime(*notification.ReadAt)
	}

	return dto
}

func ToNotificationDTOs(notifications []domain.Notification) []domain.NotificationDTO {
	dtos := make([]domain.NotificationDTO, len(notifications))
	for i := range notifications {
		dtos[i] = ToNotificationDTO(&notifications[i])
	}
	return dtos
}
