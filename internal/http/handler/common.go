package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/straye-as/chirps-api/internal/domain"
	"github.com/straye-as/chirps-api/internal/service"
	"go.uber.org/zap"
)

var validate = validator.New()

// maxJSONBodyBytes bounds JSON request bodies
const maxJSONBodyBytes = 1 << 20

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respondValidationError sends a standardized validation error response with specific field messages
func respondValidationError(w http.ResponseWriter, err error) {
	errors := make(map[string]string)
	if ve, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range ve {
			fieldName := toJSONFieldName(fe.Field())
			errors[fieldName] = formatValidationError(fe)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(domain.APIError{
		Type:   domain.ErrorTypeValidation,
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
		Detail: "One or more fields failed validation",
		Errors: errors,
	})
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", toJSONFieldName(fe.Field()))
	case "email":
		return "Must be a valid email address"
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	default:
		return domain.GetValidationMessage(fe.Tag())
	}
}

// toJSONFieldName converts a Go struct field name to its JSON equivalent (camelCase)
func toJSONFieldName(field string) string {
	if len(field) == 0 {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// respondWithError sends a standardized JSON error response
func respondWithError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.APIError{
		Type:   getErrorType(status),
		Title:  http.StatusText(status),
		Status: status,
		Detail: message,
	})
}

// respondMessage sends {"message": message}
func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, domain.MessageResponse{Message: message})
}

// getErrorType returns the appropriate error type for an HTTP status code
func getErrorType(status int) string {
	switch status {
	case http.StatusBadRequest:
		return domain.ErrorTypeBadRequest
	case http.StatusUnauthorized:
		return domain.ErrorTypeUnauthorized
	case http.StatusForbidden:
		return domain.ErrorTypeForbidden
	case http.StatusNotFound:
		return domain.ErrorTypeNotFound
	case http.StatusConflict:
		return domain.ErrorTypeConflict
	case http.StatusRequestEntityTooLarge:
		return domain.ErrorTypeTooLarge
	case http.StatusUnsupportedMediaType:
		return domain.ErrorTypeUnsupported
	default:
		return domain.ErrorTypeInternal
	}
}

// serviceErrorStatus maps service sentinel errors to HTTP status codes
var serviceErrorStatus = []struct {
	err    error
	status int
}{
	{service.ErrUserContextRequired, http.StatusUnauthorized},
	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{service.ErrUserNotFound, http.StatusNotFound},
	{service.ErrChirpNotFound, http.StatusNotFound},
	{service.ErrReactionNotFound, http.StatusNotFound},
	{service.ErrNotificationNotFound, http.StatusNotFound},
	{service.ErrAvatarNotFound, http.StatusNotFound},
	{service.ErrNotChirpOwner, http.StatusForbidden},
	{service.ErrNotificationNotOwned, http.StatusForbidden},
	{service.ErrEmailTaken, http.StatusConflict},
	{service.ErrIncorrectPassword, http.StatusBadRequest},
	{service.ErrInvalidName, http.StatusBadRequest},
	{service.ErrInvalidMessage, http.StatusBadRequest},
	{service.ErrInvalidReactionType, http.StatusBadRequest},
	{service.ErrInvalidNotificationType, http.StatusBadRequest},
	{service.ErrAvatarTooLarge, http.StatusRequestEntityTooLarge},
	{service.ErrUnsupportedAvatarType, http.StatusUnsupportedMediaType},
}

// handleServiceError writes the response for a service error.
// Unknown errors are logged and answered with a 500 carrying fallback.
func handleServiceError(w http.ResponseWriter, logger *zap.Logger, err error, fallback string) {
	for _, m := range serviceErrorStatus {
		if errors.Is(err, m.err) {
			respondJSON(w, m.status, domain.ErrorResponse{
				Error:   http.StatusText(m.status),
				Message: messageFor(m.err),
			})
			return
		}
	}

	logger.Error(fallback, zap.Error(err))
	respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
		Error:   http.StatusText(http.StatusInternalServerError),
		Message: fallback,
	})
}

// messageFor returns the client facing text for a sentinel error
func messageFor(err error) string {
	switch err {
	case service.ErrUserContextRequired:
		return "Authentication required"
	case service.ErrChirpNotFound:
		return "Chirp not found."
	case service.ErrReactionNotFound:
		return "Reaction not found."
	case service.ErrNotChirpOwner:
		return "This action is unauthorized."
	case service.ErrNotificationNotFound:
		return "Notification not found"
	case service.ErrNotificationNotOwned:
		return "You do not have access to this notification"
	case service.ErrIncorrectPassword:
		return "The provided password is incorrect."
	case service.ErrInvalidNotificationType:
		return "invalid notification type: must be one of reaction, comment"
	default:
		return err.Error()
	}
}

// decodeJSON reads a bounded JSON body into dst and validates it.
// It writes the error response itself and reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		respondValidationError(w, err)
		return false
	}
	return true
}

// parseUUIDParam reads a UUID path parameter, answering 400 when malformed
func parseUUIDParam(w http.ResponseWriter, r *http.Request, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: fmt.Sprintf("Invalid %s ID format", label),
		})
		return uuid.Nil, false
	}
	return id, true
}

// parsePagination reads page and pageSize; clamping happens in the services
func parsePagination(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	return page, pageSize
}
