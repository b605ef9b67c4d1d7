package quiz_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mind-engage/mindengage-quiz/internal/db"
	"github.com/mind-engage/mindengage-quiz/internal/quiz"
)

func openSQLite(t *testing.T) *quiz.SQLStore {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dbh, err := db.Open(ctx, db.DriverSQLite, "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = dbh.Close() })
	return quiz.NewSQLStore(dbh)
}

func sampleQuiz() quiz.Quiz {
	return quiz.Quiz{
		ID:              "qz-1",
		Token:           "tok-1",
		Title:           "Day 1 check",
		Description:     "warm-up",
		DurationMinutes: 10,
		IsActive:        true,
		Questions: []quiz.Question{
			{
				ID: "q1", Text: "Pick A", TextAlt: "A चुनें", Type: quiz.SingleChoice,
				Options: []quiz.Option{
					{ID: "q1a", Text: "A", IsCorrect: true},
					{ID: "q1b", Text: "B"},
					{ID: "q1c", Text: "C"},
				},
			},
			{
				ID: "q2", Text: "Pick A and B", Type: quiz.MultipleChoice,
				Options: []quiz.Option{
					{ID: "q2a", Text: "A", IsCorrect: true},
					{ID: "q2b", Text: "B", IsCorrect: true},
					{ID: "q2c", Text: "C"},
				},
			},
		},
	}
}

func stores(t *testing.T) map[string]quiz.Store {
	return map[string]quiz.Store{
		"memory": quiz.NewInMemoryStore(),
		"sqlite": openSQLite(t),
	}
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if err := st.PutQuiz(ctx, sampleQuiz()); err != nil {
				t.Fatalf("put: %v", err)
			}

			h, err := st.Header(ctx, "tok-1")
			if err != nil {
				t.Fatalf("header: %v", err)
			}
			if h.ID != "qz-1" || h.QuestionCount != 2 || !h.IsActive || h.DurationMinutes != 10 {
				t.Fatalf("unexpected header: %+v", h)
			}

			g, err := st.GradingQuiz(ctx, "qz-1")
			if err != nil {
				t.Fatalf("grading quiz: %v", err)
			}
			if len(g.Questions) != 2 || g.Questions[0].ID != "q1" || g.Questions[1].ID != "q2" {
				t.Fatalf("question order not kept: %+v", g.Questions)
			}
			if !g.Questions[1].Options[1].IsCorrect || g.Questions[1].Options[2].IsCorrect {
				t.Fatalf("answer key lost: %+v", g.Questions[1].Options)
			}
			if g.Questions[0].TextAlt != "A चुनें" {
				t.Fatalf("textAlt lost: %q", g.Questions[0].TextAlt)
			}
		})
	}
}

func TestStore_PublicQuizHasNoAnswerKey(t *testing.T) {
	ctx := context.Background()
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if err := st.PutQuiz(ctx, sampleQuiz()); err != nil {
				t.Fatalf("put: %v", err)
			}
			p, err := st.PublicQuiz(ctx, "tok-1")
			if err != nil {
				t.Fatalf("public: %v", err)
			}
			if len(p.Questions) != 2 || len(p.Questions[0].Options) != 3 {
				t.Fatalf("unexpected shape: %+v", p)
			}
			for i, o := range p.Questions[0].Options {
				if o.Order != i {
					t.Fatalf("option order = %d, want %d", o.Order, i)
				}
			}
			buf, _ := json.Marshal(p)
			if strings.Contains(string(buf), "isCorrect") || strings.Contains(string(buf), "correct") {
				t.Fatalf("public quiz leaks correctness: %s", buf)
			}
			if _, err := st.PublicQuizByID(ctx, "qz-1"); err != nil {
				t.Fatalf("public by id: %v", err)
			}
		})
	}
}

func TestStore_PutReplacesQuestions(t *testing.T) {
	ctx := context.Background()
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			q := sampleQuiz()
			if err := st.PutQuiz(ctx, q); err != nil {
				t.Fatalf("put: %v", err)
			}
			q.Questions = q.Questions[:1]
			q.IsActive = false
			if err := st.PutQuiz(ctx, q); err != nil {
				t.Fatalf("re-put: %v", err)
			}
			h, err := st.Header(ctx, "tok-1")
			if err != nil {
				t.Fatalf("header: %v", err)
			}
			if h.QuestionCount != 1 || h.IsActive {
				t.Fatalf("unexpected header after replace: %+v", h)
			}
		})
	}
}

func TestStore_NotFound(t *testing.T) {
	ctx := context.Background()
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := st.Header(ctx, "nope"); !errors.Is(err, quiz.ErrNotFound) {
				t.Fatalf("header err = %v", err)
			}
			if _, err := st.PublicQuiz(ctx, "nope"); !errors.Is(err, quiz.ErrNotFound) {
				t.Fatalf("public err = %v", err)
			}
			if _, err := st.GradingQuiz(ctx, "nope"); !errors.Is(err, quiz.ErrNotFound) {
				t.Fatalf("grading err = %v", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*quiz.Quiz)
	}{
		{"missing id", func(q *quiz.Quiz) { q.ID = "" }},
		{"missing token", func(q *quiz.Quiz) { q.Token = " " }},
		{"zero duration", func(q *quiz.Quiz) { q.DurationMinutes = 0 }},
		{"bad type", func(q *quiz.Quiz) { q.Questions[0].Type = "ESSAY" }},
		{"no options", func(q *quiz.Quiz) { q.Questions[0].Options = nil }},
		{"dup question", func(q *quiz.Quiz) { q.Questions[1].ID = "q1" }},
		{"dup option", func(q *quiz.Quiz) { q.Questions[1].Options[0].ID = "q1a" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := sampleQuiz()
			tc.mutate(&q)
			if err := quiz.Validate(q); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}

	// malformed answer keys are accepted; grading deals with them
	q := sampleQuiz()
	q.Questions[0].Options[1].IsCorrect = true
	if err := quiz.Validate(q); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
