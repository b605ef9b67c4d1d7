package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-quiz/internal/attempt"
)

// GET /admin/quizzes/{quizID}/attempts?status=submitted&limit=50&offset=0
// Newest first. Requires attempt:view-all (enforced by the router).
func ListAttemptsHandler(svc *attempt.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		status := attempt.Status(strings.TrimSpace(q.Get("status")))
		switch status {
		case "", attempt.StatusInProgress, attempt.StatusSubmitted:
		default:
			respondErrorCode(w, http.StatusBadRequest, "bad_request", "status must be in_progress or submitted")
			return
		}

		list, err := svc.List(r.Context(), attempt.ListOpts{
			QuizID: chi.URLParam(r, "quizID"),
			Status: status,
			Limit:  parseIntDefault(q.Get("limit"), 50),
			Offset: parseIntDefault(q.Get("offset"), 0),
		})
		if err != nil {
			respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, list)
	}
}
