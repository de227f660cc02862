package handlers

import (
	"errors"
	"net/http"

	"github.com/gabeliss/kandidly/internal/lifecycle"
	"github.com/gabeliss/kandidly/internal/models"
	"github.com/gabeliss/kandidly/internal/utils"
)

// writeLifecycleError maps the error taxonomy onto HTTP codes for the
// hiring side. Candidates never see these; the take handler maps everything
// onto coarse states instead.
func writeLifecycleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, lifecycle.ErrNotFound):
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
			Code: "not_found", Message: err.Error()})
	case errors.Is(err, lifecycle.ErrInvalidState):
		utils.JSON(w, http.StatusConflict, models.ErrorResponse{
			Code: "invalid_state", Message: err.Error()})
	case errors.Is(err, lifecycle.ErrExpired):
		utils.JSON(w, http.StatusGone, models.ErrorResponse{
			Code: "expired", Message: err.Error()})
	case errors.Is(err, lifecycle.ErrStaleTransition):
		utils.JSON(w, http.StatusConflict, models.ErrorResponse{
			Code: "stale_transition", Message: err.Error()})
	case errors.Is(err, lifecycle.ErrInvalidArtifact):
		utils.JSON(w, http.StatusUnprocessableEntity, models.ErrorResponse{
			Code: "invalid_artifact", Message: err.Error()})
	case errors.Is(err, lifecycle.ErrUpstream):
		utils.JSON(w, http.StatusBadGateway, models.ErrorResponse{
			Code: "upstream_failure", Message: err.Error()})
	default:
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code: "internal_error", Message: "Unexpected internal error"})
	}
}
