package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gabeliss/kandidly/internal/models"
	"github.com/gabeliss/kandidly/internal/utils"
)

// CandidateLinkAuth guards the candidate-facing routes. The signed link
// token is the candidate's only credential; its subject must match the
// interview id in the path. Candidates only ever see coarse errors.
func CandidateLinkAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := utils.VerifyLinkToken(r, secret)
			if err != nil {
				utils.JSON(w, http.StatusUnauthorized, models.CandidateErrorResponse{
					State:   models.CandidateStateError,
					Message: "This challenge link is not valid. Please use the link from your invitation email.",
				})
				return
			}

			interviewID, err := utils.InterviewIDFromClaims(claims)
			if err != nil || interviewID != chi.URLParam(r, "id") {
				utils.JSON(w, http.StatusUnauthorized, models.CandidateErrorResponse{
					State:   models.CandidateStateError,
					Message: "This challenge link does not match the requested interview.",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
