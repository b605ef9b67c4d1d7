package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-quiz/internal/attempt"
)

// POST /quizzes/{token}/attempts  { "language": "hi" }   (body optional)
// Without a body language the Accept-Language header decides.
func StartAttemptHandler(svc *attempt.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Language string `json:"language"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			respondErrorCode(w, http.StatusBadRequest, "bad_request", "bad json")
			return
		}
		s, err := svc.Start(r.Context(), chi.URLParam(r, "token"), req.Language, r.Header.Get("Accept-Language"))
		if err != nil {
			respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusCreated, s)
	}
}

// GET /attempts/{attemptID}
func GetAttemptHandler(svc *attempt.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.Progress(r.Context(), chi.URLParam(r, "attemptID"))
		if err != nil {
			respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, p)
	}
}

// PUT /attempts/{attemptID}/answers/{questionID}  { "optionIds": ["..."] }
// An empty or missing optionIds, or an empty body, clears the answer.
func SaveAnswerHandler(svc *attempt.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			OptionIDs []string `json:"optionIds"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			respondErrorCode(w, http.StatusBadRequest, "bad_request", "bad json")
			return
		}
		err := svc.SaveAnswer(r.Context(),
			chi.URLParam(r, "attemptID"), chi.URLParam(r, "questionID"), req.OptionIDs)
		if err != nil {
			respondError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// POST /attempts/{attemptID}/submit
func SubmitAttemptHandler(svc *attempt.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := svc.Submit(r.Context(), chi.URLParam(r, "attemptID"))
		if err != nil {
			respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, v)
	}
}

// GET /attempts/{attemptID}/results
func ResultsHandler(svc *attempt.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := svc.Results(r.Context(), chi.URLParam(r, "attemptID"))
		if err != nil {
			respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, v)
	}
}

// GET /results/{shareToken}
func SharedResultsHandler(svc *attempt.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := svc.ResultsByToken(r.Context(), chi.URLParam(r, "shareToken"))
		if err != nil {
			respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, v)
	}
}
