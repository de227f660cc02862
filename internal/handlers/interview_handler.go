package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gabeliss/kandidly/internal/lifecycle"
	"github.com/gabeliss/kandidly/internal/middleware"
	"github.com/gabeliss/kandidly/internal/models"
	"github.com/gabeliss/kandidly/internal/notify"
	"github.com/gabeliss/kandidly/internal/repositories"
	"github.com/gabeliss/kandidly/internal/utils"
)

// linkTokenGrace keeps the signed link resolving after the start window so
// candidates can still reach their "submitted" confirmation page. The
// stored timestamps remain the authoritative gates.
const linkTokenGrace = 30 * 24 * time.Hour

type InterviewHandler struct {
	repo       *repositories.InterviewRepository
	machine    *lifecycle.Machine
	evaluator  *lifecycle.Evaluator
	mailer     notify.Mailer
	baseURL    string
	linkSecret string
	logger     *zap.Logger
}

func NewInterviewHandler(
	repo *repositories.InterviewRepository,
	machine *lifecycle.Machine,
	evaluator *lifecycle.Evaluator,
	mailer notify.Mailer,
	baseURL, linkSecret string,
	logger *zap.Logger,
) *InterviewHandler {
	return &InterviewHandler{
		repo:       repo,
		machine:    machine,
		evaluator:  evaluator,
		mailer:     mailer,
		baseURL:    baseURL,
		linkSecret: linkSecret,
		logger:     logger,
	}
}

// CreateHandler creates a record in status created, owned by the hiring team.
func (h *InterviewHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.CreateInterviewRequest](r)

	rec := &models.InterviewRecord{
		ID:             uuid.New().String(),
		CandidateName:  req.CandidateName,
		CandidateEmail: req.CandidateEmail,
		Position:       req.Position,
		ChallengeID:    req.ChallengeID,
		CompanyID:      req.CompanyID,
		CreatedBy:      req.CreatedBy,
		Notes:          req.Notes,
		Status:         models.StatusCreated,
	}
	if err := h.repo.Create(rec); err != nil {
		h.logger.Error("failed to create interview", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Failed to create interview",
		})
		return
	}

	h.logger.Info("interview created",
		zap.String("interview_id", rec.ID),
		zap.String("company_id", rec.CompanyID),
		zap.String("created_by", rec.CreatedBy))
	utils.JSON(w, http.StatusCreated, rec)
}

// ListHandler returns a company's interviews with optional status filter and
// candidate/position search, plus per-status counts for the dashboard.
func (h *InterviewHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	companyID := r.URL.Query().Get("company_id")
	if companyID == "" {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "missing_company_id",
			Message: "company_id query parameter is required",
		})
		return
	}

	status := models.Status(r.URL.Query().Get("status"))
	if status != "" && !models.ValidStatuses[status] {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "invalid_status",
			Message: "unknown status filter",
		})
		return
	}

	recs, err := h.repo.ListByCompany(companyID, status)
	if err != nil {
		h.logger.Error("failed to list interviews", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Failed to list interviews",
		})
		return
	}

	if search := strings.ToLower(r.URL.Query().Get("search")); search != "" {
		filtered := recs[:0]
		for _, rec := range recs {
			if strings.Contains(strings.ToLower(rec.CandidateName), search) ||
				strings.Contains(strings.ToLower(rec.CandidateEmail), search) ||
				strings.Contains(strings.ToLower(rec.Position), search) {
				filtered = append(filtered, rec)
			}
		}
		recs = filtered
	}

	counts, err := h.repo.StatusCounts(companyID)
	if err != nil {
		h.logger.Error("failed to count interviews", zap.Error(err))
		counts = map[models.Status]int{}
	}

	utils.JSON(w, http.StatusOK, models.InterviewListResponse{
		Total:        len(recs),
		Items:        recs,
		StatusCounts: counts,
	})
}

// GetHandler returns the full record, error taxonomy included.
func (h *InterviewHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	rec, err := h.machine.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeLifecycleError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, rec)
}

// SendHandler runs the created -> sent transition, then emails the
// invitation. A failed email does not roll the transition back; the caller
// sees notification_sent=false and can retry the send separately.
func (h *InterviewHandler) SendHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.machine.Send(id)
	if err != nil {
		writeLifecycleError(w, err)
		return
	}

	token, err := utils.GenerateLinkToken(rec.ID, h.linkSecret, rec.ExpiresAt.Add(linkTokenGrace))
	if err != nil {
		h.logger.Error("failed to sign challenge link", zap.String("interview_id", id), zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Failed to build challenge link",
		})
		return
	}
	link := h.baseURL + "/take-challenge/" + rec.ID + "?token=" + token

	sent := false
	if h.mailer != nil {
		err := h.mailer.Send(
			rec.CandidateEmail,
			notify.InvitationSubject(rec.Position),
			notify.InvitationBody(rec.CandidateName, rec.Position, link),
		)
		if err != nil {
			h.logger.Error("invitation email failed",
				zap.String("interview_id", id),
				zap.Error(err))
		} else {
			sent = true
		}
	}

	utils.JSON(w, http.StatusOK, models.SendResponse{
		Interview:        rec,
		ChallengeLink:    link,
		NotificationSent: sent,
	})
}

// AnalyzeHandler triggers the AI evaluation of a submitted record.
func (h *InterviewHandler) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	if h.evaluator == nil {
		utils.JSON(w, http.StatusServiceUnavailable, models.ErrorResponse{
			Code:    "analysis_unavailable",
			Message: "AI analysis is not configured",
		})
		return
	}

	rec, err := h.evaluator.Run(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeLifecycleError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, rec)
}

// CompleteEvaluationHandler attaches an evaluation produced out of band and
// runs the analysis-complete transition.
func (h *InterviewHandler) CompleteEvaluationHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.CompleteEvaluationRequest](r)

	rec, err := h.machine.CompleteAnalysis(chi.URLParam(r, "id"), models.Evaluation{
		AIAnalysis:     req.AIAnalysis,
		Recommendation: models.Recommendation(req.Recommendation),
		OverallScore:   req.OverallScore,
	})
	if err != nil {
		writeLifecycleError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, rec)
}

// AnalysisFailedHandler returns a stuck evaluating record to submitted so
// analysis can be retried. Used by the external supervisor.
func (h *InterviewHandler) AnalysisFailedHandler(w http.ResponseWriter, r *http.Request) {
	rec, err := h.machine.FailAnalysis(chi.URLParam(r, "id"))
	if err != nil {
		writeLifecycleError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, rec)
}

// DeleteHandler removes a record. Explicit hiring-team action only.
func (h *InterviewHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Delete(chi.URLParam(r, "id")); err != nil {
		writeLifecycleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StatsHandler summarises the company pipeline.
func (h *InterviewHandler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	companyID := r.URL.Query().Get("company_id")
	if companyID == "" {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "missing_company_id",
			Message: "company_id query parameter is required",
		})
		return
	}

	counts, err := h.repo.StatusCounts(companyID)
	if err != nil {
		h.logger.Error("failed to count interviews", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Failed to compute stats",
		})
		return
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	evaluated, err := h.repo.ListByCompany(companyID, models.StatusEvaluated)
	if err != nil {
		h.logger.Error("failed to list evaluated interviews", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Failed to compute stats",
		})
		return
	}
	avg := 0.0
	for _, rec := range evaluated {
		if rec.Evaluation != nil {
			avg += rec.Evaluation.OverallScore
		}
	}
	if len(evaluated) > 0 {
		avg /= float64(len(evaluated))
	}

	utils.JSON(w, http.StatusOK, models.InterviewStatsResponse{
		Total:         total,
		StatusCounts:  counts,
		EvaluatedAvg:  avg,
		EvaluatedDone: len(evaluated),
	})
}
