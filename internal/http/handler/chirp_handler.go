package handler

import (
	"net/http"

	"github.com/straye-as/chirps-api/internal/domain"
	"github.com/straye-as/chirps-api/internal/service"
	"go.uber.org/zap"
)

// ChirpHandler handles HTTP requests for chirps
type ChirpHandler struct {
	chirpService *service.ChirpService
	logger       *zap.Logger
}

// NewChirpHandler creates a new ChirpHandler instance
func NewChirpHandler(chirpService *service.ChirpService, logger *zap.Logger) *ChirpHandler {
	return &ChirpHandler{
		chirpService: chirpService,
		logger:       logger,
	}
}

// List godoc
// @Summary List chirps
// @Description Paginated feed, newest first, with authors, reactions and comments
// @Tags Chirps
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.ChirpDTO}
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /chirps [get]
func (h *ChirpHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	result, err := h.chirpService.List(r.Context(), page, pageSize)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to list chirps")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get chirp
// @Tags Chirps
// @Produce json
// @Param id path string true "Chirp ID" format(uuid)
// @Success 200 {object} domain.ChirpDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /chirps/{id} [get]
func (h *ChirpHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "chirp")
	if !ok {
		return
	}

	chirp, err := h.chirpService.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to get chirp")
		return
	}

	respondJSON(w, http.StatusOK, chirp)
}

// Create godoc
// @Summary Create chirp
// @Tags Chirps
// @Accept json
// @Produce json
// @Param request body domain.CreateChirpRequest true "Chirp"
// @Success 201 {object} domain.ChirpResponse
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /chirps [post]
func (h *ChirpHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateChirpRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	chirp, err := h.chirpService.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to create chirp")
		return
	}

	respondJSON(w, http.StatusCreated, domain.ChirpResponse{
		Message: "Chirp created successfully.",
		Chirp:   *chirp,
	})
}

// Update godoc
// @Summary Update chirp
// @Description Only the author may edit a chirp
// @Tags Chirps
// @Accept json
// @Produce json
// @Param id path string true "Chirp ID" format(uuid)
// @Param request body domain.UpdateChirpRequest true "New message"
// @Success 200 {object} domain.ChirpResponse
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /chirps/{id} [put]
func (h *ChirpHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "chirp")
	if !ok {
		return
	}

	var req domain.UpdateChirpRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	chirp, err := h.chirpService.Update(r.Context(), id, &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to update chirp")
		return
	}

	respondJSON(w, http.StatusOK, domain.ChirpResponse{
		Message: "Chirp updated successfully.",
		Chirp:   *chirp,
	})
}

// Delete godoc
// @Summary Delete chirp
// @Description Removes the chirp with its reactions, comments and notifications
// @Tags Chirps
// @Produce json
// @Param id path string true "Chirp ID" format(uuid)
// @Success 200 {object} domain.MessageResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /chirps/{id} [delete]
func (h *ChirpHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "chirp")
	if !ok {
		return
	}

	if err := h.chirpService.Delete(r.Context(), id); err != nil {
		handleServiceError(w, h.logger, err, "Failed to delete chirp")
		return
	}

	respondMessage(w, http.StatusOK, "Chirp deleted successfully.")
}
