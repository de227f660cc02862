package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gabeliss/kandidly/internal/middleware"
	"github.com/gabeliss/kandidly/internal/models"
	"github.com/gabeliss/kandidly/internal/repositories"
	"github.com/gabeliss/kandidly/internal/utils"
)

// ChallengeHandler is the hiring-side CRUD over reusable challenges. The
// lifecycle core only ever reads challenges, by id.
type ChallengeHandler struct {
	repo   *repositories.ChallengeRepository
	logger *zap.Logger
}

func NewChallengeHandler(repo *repositories.ChallengeRepository, logger *zap.Logger) *ChallengeHandler {
	return &ChallengeHandler{repo: repo, logger: logger}
}

func (h *ChallengeHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.ChallengeRequest](r)

	c := &models.Challenge{
		ID:                uuid.New().String(),
		Title:             req.Title,
		Description:       req.Description,
		Instructions:      req.Instructions,
		Difficulty:        req.Difficulty,
		Category:          req.Category,
		EstimatedDuration: req.EstimatedDuration,
		TechStack:         req.TechStack,
		StarterCodeZipURL: req.StarterCodeZipURL,
	}
	if err := h.repo.Create(c); err != nil {
		h.logger.Error("failed to create challenge", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Failed to create challenge",
		})
		return
	}
	utils.JSON(w, http.StatusCreated, c)
}

func (h *ChallengeHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	cs, err := h.repo.GetAll()
	if err != nil {
		h.logger.Error("failed to list challenges", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Failed to list challenges",
		})
		return
	}
	utils.JSON(w, http.StatusOK, cs)
}

func (h *ChallengeHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	c, err := h.repo.GetChallenge(chi.URLParam(r, "id"))
	if err != nil {
		writeLifecycleError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, c)
}

func (h *ChallengeHandler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.ChallengeRequest](r)

	c, err := h.repo.Update(chi.URLParam(r, "id"), &models.Challenge{
		Title:             req.Title,
		Description:       req.Description,
		Instructions:      req.Instructions,
		Difficulty:        req.Difficulty,
		Category:          req.Category,
		EstimatedDuration: req.EstimatedDuration,
		TechStack:         req.TechStack,
		StarterCodeZipURL: req.StarterCodeZipURL,
	})
	if err != nil {
		writeLifecycleError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, c)
}

func (h *ChallengeHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Delete(chi.URLParam(r, "id")); err != nil {
		writeLifecycleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
