package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/gabeliss/kandidly/internal/handlers"
	"github.com/gabeliss/kandidly/internal/middleware"
)

// TakeRoutes mounts the candidate-facing path. Every route is guarded by
// the signed challenge-link token.
func TakeRoutes(router *chi.Mux, takeHandler *handlers.TakeHandler, linkSecret string) {
	router.Route("/api/v1/take/{id}", func(r chi.Router) {
		r.Use(middleware.CandidateLinkAuth(linkSecret))
		r.Get("/", takeHandler.GetHandler)
		r.Post("/start", takeHandler.StartHandler)
		r.Post("/submit", takeHandler.SubmitHandler)
	})
}
