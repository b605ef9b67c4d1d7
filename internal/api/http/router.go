package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-quiz/internal/attempt"
	auth "github.com/mind-engage/mindengage-quiz/internal/auth/middleware"
	"github.com/mind-engage/mindengage-quiz/internal/quiz"
	"github.com/mind-engage/mindengage-quiz/internal/rbac"
	syncx "github.com/mind-engage/mindengage-quiz/internal/sync"
)

type Deps struct {
	Quizzes  quiz.Store
	Attempts *attempt.Service
	Auth     *auth.AuthService
	Admin    auth.Admin
	Events   *syncx.EventRepo // nil without a SQL backend
}

// Mount registers the learner and admin routes on r. Learner routes are
// unauthenticated: the quiz token and attempt id act as capabilities.
func Mount(r chi.Router, d Deps) {
	r.Get("/quizzes/{token}", GetQuizHandler(d.Quizzes))
	r.Post("/quizzes/{token}/attempts", StartAttemptHandler(d.Attempts))

	r.Route("/attempts/{attemptID}", func(ar chi.Router) {
		ar.Get("/", GetAttemptHandler(d.Attempts))
		ar.Put("/answers/{questionID}", SaveAnswerHandler(d.Attempts))
		ar.Post("/submit", SubmitAttemptHandler(d.Attempts))
		ar.Get("/results", ResultsHandler(d.Attempts))
	})
	r.Get("/results/{shareToken}", SharedResultsHandler(d.Attempts))

	r.Post("/auth/login", auth.LoginHandler(d.Auth, d.Admin))

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(d.Auth))

		pr.With(rbac.Require("quiz:import")).
			Put("/admin/quizzes", UploadQuizHandler(d.Quizzes))
		pr.With(rbac.Require("attempt:view-all")).
			Get("/admin/quizzes/{quizID}/attempts", ListAttemptsHandler(d.Attempts))
		if d.Events != nil {
			pr.With(rbac.Require("audit:view")).
				Get("/admin/events", AuditSearchHandler(d.Events))
		}
	})
}

// NewRouter is Mount on a fresh chi router.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	Mount(r, d)
	return r
}
