package service

import "errors"

// Common service errors
var (
	// ErrUserContextRequired is returned when no authenticated user is on the context
	ErrUserContextRequired = errors.New("user context required")

	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken is returned when another account already uses the email address
	ErrEmailTaken = errors.New("email address is already registered")

	// ErrInvalidCredentials is returned by login for an unknown email or a wrong password
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrIncorrectPassword is returned when a confirming password does not match
	ErrIncorrectPassword = errors.New("the provided password is incorrect")

	// ErrInvalidName is returned when a display name is blank after trimming
	ErrInvalidName = errors.New("name must not be empty")

	// ErrChirpNotFound is returned when a chirp is not found
	ErrChirpNotFound = errors.New("chirp not found")

	// ErrNotChirpOwner is returned when a user modifies a chirp they did not write
	ErrNotChirpOwner = errors.New("chirp does not belong to current user")

	// ErrInvalidMessage is returned for an empty or too long chirp message or comment
	ErrInvalidMessage = errors.New("message must be between 1 and 255 characters")

	// ErrInvalidReactionType is returned for a reaction type outside the supported set
	ErrInvalidReactionType = errors.New("invalid reaction type")

	// ErrReactionNotFound is returned when the user has no reaction on the chirp
	ErrReactionNotFound = errors.New("reaction not found")

	// ErrNotificationNotFound is returned when a notification is not found
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrNotificationNotOwned is returned when trying to access a notification owned by another user
	ErrNotificationNotOwned = errors.New("notification does not belong to current user")

	// ErrInvalidNotificationType is returned when filtering by an unknown notification type
	ErrInvalidNotificationType = errors.New("invalid notification type")

	// ErrAvatarNotFound is returned when a user has no avatar
	ErrAvatarNotFound = errors.New("avatar not found")

	// ErrUnsupportedAvatarType is returned when an upload is not a supported image format
	ErrUnsupportedAvatarType = errors.New("avatar must be a PNG, JPEG, GIF or WebP image")

	// ErrAvatarTooLarge is returned when an upload exceeds the configured size
	ErrAvatarTooLarge = errors.New("avatar exceeds the maximum upload size")
)
