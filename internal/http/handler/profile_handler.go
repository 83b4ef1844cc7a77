package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/straye-as/chirps-api/internal/domain"
	"github.com/straye-as/chirps-api/internal/service"
	"go.uber.org/zap"
)

// multipart form overhead allowed on top of the avatar itself
const avatarFormOverhead = 1 << 20

// ProfileHandler handles the current user's account
type ProfileHandler struct {
	profileService *service.ProfileService
	maxUploadBytes int64
	logger         *zap.Logger
}

func NewProfileHandler(profileService *service.ProfileService, maxUploadBytes int64, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Get godoc
// @Summary Get profile
// @Tags Profile
// @Produce json
// @Success 200 {object} domain.UserDTO
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /profile [get]
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.profileService.Get(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to get profile")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// Update godoc
// @Summary Update profile
// @Description Changes name and/or email
// @Tags Profile
// @Accept json
// @Produce json
// @Param request body domain.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} domain.UserDTO
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /profile [patch]
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.profileService.Update(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to update profile")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// UpdatePassword godoc
// @Summary Change password
// @Tags Profile
// @Accept json
// @Param request body domain.UpdatePasswordRequest true "Current and new password"
// @Success 204 "No Content"
// @Failure 400 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /profile/password [put]
func (h *ProfileHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdatePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.profileService.ChangePassword(r.Context(), &req); err != nil {
		handleServiceError(w, h.logger, err, "Failed to change password")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete godoc
// @Summary Delete account
// @Description Removes the account with its chirps, reactions, comments and notifications
// @Tags Profile
// @Accept json
// @Param request body domain.DeleteAccountRequest true "Password confirmation"
// @Success 204 "No Content"
// @Failure 400 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /profile [delete]
func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req domain.DeleteAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.profileService.Delete(r.Context(), req.Password); err != nil {
		handleServiceError(w, h.logger, err, "Failed to delete account")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadAvatar godoc
// @Summary Upload avatar
// @Description Accepts a PNG, JPEG, GIF or WebP image in the multipart field "file"
// @Tags Profile
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Avatar image"
// @Success 200 {object} domain.UserDTO
// @Failure 400 {object} domain.APIError
// @Failure 413 {object} domain.ErrorResponse
// @Failure 415 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /profile/avatar [put]
func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+avatarFormOverhead)

	file, _, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondWithError(w, http.StatusRequestEntityTooLarge, service.ErrAvatarTooLarge.Error())
			return
		}
		respondWithError(w, http.StatusBadRequest, "A file must be uploaded in the \"file\" field")
		return
	}
	defer file.Close()

	user, err := h.profileService.UploadAvatar(r.Context(), file)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to upload avatar")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// GetAvatar godoc
// @Summary Get a user's avatar
// @Tags Profile
// @Produce image/png,image/jpeg,image/gif,image/webp
// @Param id path string true "User ID" format(uuid)
// @Success 200 {file} binary
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /users/{id}/avatar [get]
func (h *ProfileHandler) GetAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUUIDParam(w, r, "id", "user")
	if !ok {
		return
	}

	body, contentType, err := h.profileService.GetAvatar(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to get avatar")
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		h.logger.Warn("failed to stream avatar", zap.String("userID", userID.String()), zap.Error(err))
	}
}
