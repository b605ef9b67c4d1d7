package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/mind-engage/mindengage-quiz/internal/attempt"
	auth "github.com/mind-engage/mindengage-quiz/internal/auth/middleware"
	"github.com/mind-engage/mindengage-quiz/internal/db"
	"github.com/mind-engage/mindengage-quiz/internal/quiz"
	"github.com/mind-engage/mindengage-quiz/internal/results"
	syncx "github.com/mind-engage/mindengage-quiz/internal/sync"
)

func TestAuditSearch(t *testing.T) {
	ctx := context.Background()
	dbh, err := db.Open(ctx, db.DriverSQLite, "file:audit_search?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = dbh.Close() })

	quizzes := quiz.NewSQLStore(dbh)
	if err := quizzes.PutQuiz(ctx, testQuiz()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	svc := attempt.NewService(quizzes, attempt.NewSQLLedger(dbh, db.DriverSQLite), results.NewLanguages("en", "hi"))
	a := auth.NewAuthService("k")
	hash, _ := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	srv := httptest.NewServer(NewRouter(Deps{
		Quizzes: quizzes, Attempts: svc, Auth: a,
		Admin:  auth.Admin{User: "admin", PassHash: string(hash)},
		Events: syncx.NewEventRepo(dbh),
	}))
	t.Cleanup(srv.Close)

	s, err := svc.Start(ctx, "tok-1")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.Submit(ctx, s.AttemptID); err != nil {
		t.Fatalf("submit: %v", err)
	}

	tok, _ := a.IssueJWT("admin", auth.RoleAdmin)
	res, body := do(t, srv, "GET", "/admin/events?q="+s.AttemptID, tok, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("search: %d %s", res.StatusCode, body)
	}
	var got []struct {
		Type string `json:"typ"`
		Key  string `json:"key"`
		Data struct {
			Score          int `json:"score"`
			TotalQuestions int `json:"totalQuestions"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
	if len(got) != 1 || got[0].Type != syncx.TypeAttemptSubmitted || got[0].Data.TotalQuestions != 2 {
		t.Fatalf("events: %s", body)
	}

	teacherTok, _ := a.IssueJWT("t1", "teacher")
	res, _ = do(t, srv, "GET", "/admin/events", teacherTok, nil)
	if res.StatusCode != http.StatusForbidden {
		t.Fatalf("teacher audit: %d", res.StatusCode)
	}
}
