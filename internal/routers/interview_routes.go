package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/gabeliss/kandidly/internal/handlers"
	"github.com/gabeliss/kandidly/internal/middleware"
	"github.com/gabeliss/kandidly/internal/models"
)

func InterviewRoutes(router *chi.Mux, interviewHandler *handlers.InterviewHandler) {
	router.Route("/api/v1/interviews", func(r chi.Router) {
		r.With(middleware.ValidateRequest[*models.CreateInterviewRequest]()).Post("/", interviewHandler.CreateHandler)
		r.Get("/", interviewHandler.ListHandler)
		r.Get("/stats", interviewHandler.StatsHandler)
		r.Get("/{id}", interviewHandler.GetHandler)
		r.Delete("/{id}", interviewHandler.DeleteHandler)

		r.Post("/{id}/send", interviewHandler.SendHandler)
		r.Post("/{id}/analyze", interviewHandler.AnalyzeHandler)
		r.With(middleware.ValidateRequest[*models.CompleteEvaluationRequest]()).Post("/{id}/evaluation", interviewHandler.CompleteEvaluationHandler)
		r.Post("/{id}/analysis-failed", interviewHandler.AnalysisFailedHandler)
	})
}
