package handler

import (
	"net/http"

	"github.com/straye-as/chirps-api/internal/domain"
	"github.com/straye-as/chirps-api/internal/service"
	"go.uber.org/zap"
)

// CommentHandler handles HTTP requests for comments
type CommentHandler struct {
	commentService *service.CommentService
	logger         *zap.Logger
}

// NewCommentHandler creates a new CommentHandler instance
func NewCommentHandler(commentService *service.CommentService, logger *zap.Logger) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		logger:         logger,
	}
}

// Create godoc
// @Summary Comment on a chirp
// @Tags Comments
// @Accept json
// @Produce json
// @Param chirpId path string true "Chirp ID" format(uuid)
// @Param request body domain.CreateCommentRequest true "Comment"
// @Success 201 {object} domain.CommentResponse
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /chirps/{chirpId}/comments [post]
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	chirpID, ok := parseUUIDParam(w, r, "chirpId", "chirp")
	if !ok {
		return
	}

	var req domain.CreateCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	comment, err := h.commentService.Create(r.Context(), chirpID, &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to create comment")
		return
	}

	respondJSON(w, http.StatusCreated, domain.CommentResponse{Comment: *comment})
}

// List godoc
// @Summary List comments
// @Description Comments on a chirp, newest first
// @Tags Comments
// @Produce json
// @Param chirpId path string true "Chirp ID" format(uuid)
// @Success 200 {object} domain.CommentsResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /chirps/{chirpId}/comments [get]
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	chirpID, ok := parseUUIDParam(w, r, "chirpId", "chirp")
	if !ok {
		return
	}

	comments, err := h.commentService.List(r.Context(), chirpID)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to list comments")
		return
	}

	respondJSON(w, http.StatusOK, domain.CommentsResponse{Comments: comments})
}
