package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	auth "github.com/mind-engage/mindengage-quiz/internal/auth/middleware"
	"github.com/mind-engage/mindengage-quiz/internal/quiz"
)

// GET /quizzes/{token}
// Learner-safe: the store's public projection never loads isCorrect.
func GetQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := store.PublicQuiz(r.Context(), chi.URLParam(r, "token"))
		if err != nil {
			respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, q)
	}
}

// PUT /admin/quizzes
// Imports or replaces a full quiz definition, answer key included.
func UploadQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var q quiz.Quiz
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			respondErrorCode(w, http.StatusBadRequest, "bad_request", "bad json")
			return
		}
		if err := quiz.Validate(q); err != nil {
			respondErrorCode(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
		if err := store.PutQuiz(r.Context(), q); err != nil {
			respondError(w, r, err)
			return
		}
		log.Printf("quiz %s (%d questions) imported by %s", q.ID, len(q.Questions), auth.SubjectFromContext(r.Context()))
		respondJSON(w, http.StatusOK, map[string]any{
			"id":        q.ID,
			"token":     q.Token,
			"questions": len(q.Questions),
		})
	}
}
