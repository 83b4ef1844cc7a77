package handler

import (
	"errors"
	"net/http"

	"github.com/straye-as/chirps-api/internal/domain"
	"github.com/straye-as/chirps-api/internal/service"
	"go.uber.org/zap"
)

// ReactionHandler handles HTTP requests for reactions
type ReactionHandler struct {
	reactionService *service.ReactionService
	logger          *zap.Logger
}

// NewReactionHandler creates a new ReactionHandler instance
func NewReactionHandler(reactionService *service.ReactionService, logger *zap.Logger) *ReactionHandler {
	return &ReactionHandler{
		reactionService: reactionService,
		logger:          logger,
	}
}

// React godoc
// @Summary React to a chirp
// @Description Creates or replaces the caller's reaction and returns every reaction on the chirp
// @Tags Reactions
// @Accept json
// @Produce json
// @Param chirpId path string true "Chirp ID" format(uuid)
// @Param request body domain.ReactRequest true "Reaction type"
// @Success 200 {object} domain.ReactionsResponse
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /reactions/{chirpId} [post]
func (h *ReactionHandler) React(w http.ResponseWriter, r *http.Request) {
	chirpID, ok := parseUUIDParam(w, r, "chirpId", "chirp")
	if !ok {
		return
	}

	var req domain.ReactRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	reactions, err := h.reactionService.React(r.Context(), chirpID, req.Type)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to store reaction")
		return
	}

	respondJSON(w, http.StatusOK, domain.ReactionsResponse{Reactions: reactions})
}

// List godoc
// @Summary List reactions
// @Tags Reactions
// @Produce json
// @Param chirpId path string true "Chirp ID" format(uuid)
// @Success 200 {object} domain.ReactionsResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /reactions/{chirpId} [get]
func (h *ReactionHandler) List(w http.ResponseWriter, r *http.Request) {
	chirpID, ok := parseUUIDParam(w, r, "chirpId", "chirp")
	if !ok {
		return
	}

	reactions, err := h.reactionService.List(r.Context(), chirpID)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to list reactions")
		return
	}

	respondJSON(w, http.StatusOK, domain.ReactionsResponse{Reactions: reactions})
}

// Remove godoc
// @Summary Remove reaction
// @Tags Reactions
// @Produce json
// @Param chirpId path string true "Chirp ID" format(uuid)
// @Success 200 {object} domain.MessageResponse
// @Failure 404 {object} domain.MessageResponse
// @Security BearerAuth
// @Router /reactions/{chirpId} [delete]
func (h *ReactionHandler) Remove(w http.ResponseWriter, r *http.Request) {
	chirpID, ok := parseUUIDParam(w, r, "chirpId", "chirp")
	if !ok {
		return
	}

	if err := h.reactionService.Remove(r.Context(), chirpID); err != nil {
		if errors.Is(err, service.ErrReactionNotFound) {
			respondMessage(w, http.StatusNotFound, "Reaction not found.")
			return
		}
		handleServiceError(w, h.logger, err, "Failed to remove reaction")
		return
	}

	respondMessage(w, http.StatusOK, "Reaction removed successfully.")
}
