package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/mind-engage/mindengage-quiz/internal/attempt"
	"github.com/mind-engage/mindengage-quiz/internal/quiz"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func respondErrorCode(w http.ResponseWriter, status int, code, msg string) {
	respondJSON(w, status, errorBody{Error: code, Message: msg})
}

// respondError maps the attempt/quiz error taxonomy onto HTTP statuses.
// AlreadySubmitted carries its own code so clients know to fetch results
// instead of retrying.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, attempt.ErrNotFound), errors.Is(err, quiz.ErrNotFound):
		respondErrorCode(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, attempt.ErrInactive):
		respondErrorCode(w, http.StatusForbidden, "inactive", err.Error())
	case errors.Is(err, attempt.ErrInvalidReference):
		respondErrorCode(w, http.StatusUnprocessableEntity, "invalid_reference", err.Error())
	case errors.Is(err, attempt.ErrAlreadySubmitted):
		respondErrorCode(w, http.StatusConflict, "already_submitted", err.Error())
	case errors.Is(err, attempt.ErrNotSubmitted):
		respondErrorCode(w, http.StatusConflict, "not_submitted", err.Error())
	default:
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		respondErrorCode(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}
