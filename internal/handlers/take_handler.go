package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/gabeliss/kandidly/internal/lifecycle"
	"github.com/gabeliss/kandidly/internal/models"
	"github.com/gabeliss/kandidly/internal/storage"
	"github.com/gabeliss/kandidly/internal/utils"
)

// maxSubmissionBytes bounds the uploaded archive size.
const maxSubmissionBytes = 64 << 20

// TakeHandler serves the candidate-facing challenge path. Everything it
// returns is a coarse projection: candidates never see internal statuses,
// version numbers or the error taxonomy.
type TakeHandler struct {
	machine    *lifecycle.Machine
	challenges lifecycle.ChallengeStore
	artifacts  storage.ArtifactStore
	clock      lifecycle.Clock
	logger     *zap.Logger
}

func NewTakeHandler(machine *lifecycle.Machine, challenges lifecycle.ChallengeStore, artifacts storage.ArtifactStore, clock lifecycle.Clock, logger *zap.Logger) *TakeHandler {
	if clock == nil {
		clock = lifecycle.SystemClock{}
	}
	return &TakeHandler{
		machine:    machine,
		challenges: challenges,
		artifacts:  artifacts,
		clock:      clock,
		logger:     logger,
	}
}

// GetHandler loads the challenge view. Reading through GetCurrent applies
// the expired transition lazily, so a link opened after the window closes
// lands on the expired page and the stored record reflects it.
func (h *TakeHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	rec, err := h.machine.GetCurrent(chi.URLParam(r, "id"))
	if err != nil {
		h.writeCandidateError(w, err)
		return
	}
	h.writeView(w, http.StatusOK, rec)
}

// StartHandler begins the timed attempt.
func (h *TakeHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	rec, err := h.machine.Start(chi.URLParam(r, "id"))
	if err != nil {
		h.writeCandidateError(w, err)
		return
	}
	h.writeView(w, http.StatusOK, rec)
}

// SubmitHandler accepts the final archive plus notes. The upload happens
// before the submit transition; an archive stored for a submission that then
// loses to the deadline is orphaned, never referenced.
func (h *TakeHandler) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	r.Body = http.MaxBytesReader(w, r.Body, maxSubmissionBytes)
	if err := r.ParseMultipartForm(maxSubmissionBytes); err != nil {
		utils.JSON(w, http.StatusBadRequest, models.CandidateErrorResponse{
			State:   models.CandidateStateError,
			Message: "Could not read your upload. Please attach your solution archive and try again.",
		})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.JSON(w, http.StatusBadRequest, models.CandidateErrorResponse{
			State:   models.CandidateStateError,
			Message: "Please attach your solution archive.",
		})
		return
	}
	defer file.Close()

	ref, err := h.artifacts.Save(header.Filename, file)
	if err != nil {
		h.logger.Error("artifact upload failed",
			zap.String("interview_id", id),
			zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.CandidateErrorResponse{
			State:   models.CandidateStateError,
			Message: "Submission failed. Please try again.",
		})
		return
	}

	rec, err := h.machine.Submit(id, ref, r.FormValue("notes"))
	if err != nil {
		h.writeCandidateError(w, err)
		return
	}
	h.writeView(w, http.StatusOK, rec)
}

func (h *TakeHandler) writeView(w http.ResponseWriter, code int, rec *models.InterviewRecord) {
	view := models.CandidateChallengeView{
		State:              models.CandidateStateFor(rec.Status),
		Position:           rec.Position,
		ExpiresAt:          rec.ExpiresAt,
		StartedAt:          rec.StartedAt,
		SubmissionDeadline: rec.SubmissionDeadline,
		ServerNow:          h.clock.Now(),
	}

	// the challenge body is only shown while the candidate can still act
	if rec.Status == models.StatusSent || rec.Status == models.StatusStarted {
		challenge, err := h.challenges.GetChallenge(rec.ChallengeID)
		if err != nil {
			h.logger.Error("challenge lookup failed",
				zap.String("interview_id", rec.ID),
				zap.String("challenge_id", rec.ChallengeID),
				zap.Error(err))
			utils.JSON(w, http.StatusInternalServerError, models.CandidateErrorResponse{
				State:   models.CandidateStateError,
				Message: "Challenge not found. Please contact your recruiter.",
			})
			return
		}
		view.Challenge = &models.CandidateChallengeInfo{
			Title:             challenge.Title,
			Description:       challenge.Description,
			Instructions:      challenge.Instructions,
			EstimatedDuration: challenge.EstimatedDuration,
			TechStack:         challenge.TechStack,
			StarterCodeZipURL: challenge.StarterCodeZipURL,
		}
	}

	utils.JSON(w, code, view)
}

// writeCandidateError folds the internal error taxonomy into the coarse
// candidate states.
func (h *TakeHandler) writeCandidateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, lifecycle.ErrNotFound):
		utils.JSON(w, http.StatusNotFound, models.CandidateErrorResponse{
			State:   models.CandidateStateError,
			Message: "Interview not found. Please check your link or contact your recruiter.",
		})
	case errors.Is(err, lifecycle.ErrExpired):
		utils.JSON(w, http.StatusGone, models.CandidateErrorResponse{
			State:   models.CandidateStateExpired,
			Message: "This challenge has expired.",
		})
	case errors.Is(err, lifecycle.ErrInvalidState), errors.Is(err, lifecycle.ErrStaleTransition):
		utils.JSON(w, http.StatusConflict, models.CandidateErrorResponse{
			State:   models.CandidateStateError,
			Message: "This action is no longer available. Please reload the page.",
		})
	case errors.Is(err, lifecycle.ErrInvalidArtifact):
		utils.JSON(w, http.StatusUnprocessableEntity, models.CandidateErrorResponse{
			State:   models.CandidateStateError,
			Message: "Please attach your solution archive.",
		})
	default:
		h.logger.Error("candidate request failed", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.CandidateErrorResponse{
			State:   models.CandidateStateError,
			Message: "Something went wrong. Please try again later or contact support.",
		})
	}
}
