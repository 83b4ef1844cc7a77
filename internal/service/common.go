package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/straye-as/chirps-api/internal/auth"
	"github.com/straye-as/chirps-api/internal/domain"
)

const (
	defaultPageSize = 20
	maxPageSize     = 200
)

// currentUser returns the authenticated user account, rejecting the system principal
func currentUser(ctx context.Context) (*auth.UserContext, error) {
	userCtx, ok := auth.UserFromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}
	return userCtx, nil
}

func clampPagination(page, pageSize int) (int, int) {
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page < 1 {
		page = 1
	}
	return page, pageSize
}

func paginated(data interface{}, total int64, page, pageSize int) *domain.PaginatedResponse {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &domain.PaginatedResponse{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// normalizeMessage trims the text and checks it is 1..MaxMessageLength characters
func normalizeMessage(message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" || utf8.RuneCountInString(message) > domain.MaxMessageLength {
		return "", ErrInvalidMessage
	}
	return message, nil
}
