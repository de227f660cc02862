package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/gabeliss/kandidly/internal/handlers"
	"github.com/gabeliss/kandidly/internal/middleware"
	"github.com/gabeliss/kandidly/internal/models"
)

func ChallengeRoutes(router *chi.Mux, challengeHandler *handlers.ChallengeHandler) {
	router.Route("/api/v1/challenges", func(r chi.Router) {
		r.Get("/", challengeHandler.ListHandler)
		r.With(middleware.ValidateRequest[*models.ChallengeRequest]()).Post("/", challengeHandler.CreateHandler)
		r.Get("/{id}", challengeHandler.GetHandler)
		r.With(middleware.ValidateRequest[*models.ChallengeRequest]()).Put("/{id}", challengeHandler.UpdateHandler)
		r.Delete("/{id}", challengeHandler.DeleteHandler)
	})
}
