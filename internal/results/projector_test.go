package results

import (
	"testing"
	"time"

	"github.com/mind-engage/mindengage-quiz/internal/grading"
	"github.com/mind-engage/mindengage-quiz/internal/quiz"
)

func TestLanguages_Resolve(t *testing.T) {
	l := NewLanguages("en", "hi")
	cases := []struct {
		in   []string
		want string
	}{
		{nil, "en"},
		{[]string{""}, "en"},
		{[]string{"hi"}, "hi"},
		{[]string{"hi-IN"}, "hi"},
		{[]string{"en-GB"}, "en"},
		{[]string{"fr"}, "en"},
		{[]string{"!!not a tag"}, "en"},
		{[]string{"fr", "hi"}, "hi"},
		{[]string{"", "hi-IN,hi;q=0.9,en;q=0.8"}, "hi"},
	}
	for _, tc := range cases {
		if got := l.Resolve(tc.in...); got != tc.want {
			t.Errorf("Resolve(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLanguages_TextFallback(t *testing.T) {
	l := NewLanguages("en", "hi")
	if got := l.Text("hi", "Apple", "सेब"); got != "सेब" {
		t.Fatalf("got %q", got)
	}
	if got := l.Text("hi", "Apple", "  "); got != "Apple" {
		t.Fatalf("blank alt should fall back, got %q", got)
	}
	if got := l.Text("en", "Apple", "सेब"); got != "Apple" {
		t.Fatalf("got %q", got)
	}
}

func TestProject_LocalizesAndUsesStoredAggregate(t *testing.T) {
	q := quiz.Quiz{Questions: []quiz.Question{
		{ID: "q1", Text: "Fruit?", TextAlt: "फल?", Type: quiz.SingleChoice, Options: []quiz.Option{
			{ID: "a", Text: "Apple", TextAlt: "सेब", IsCorrect: true},
			{ID: "b", Text: "Brick"},
		}},
		{ID: "q2", Text: "Colours?", Type: quiz.MultipleChoice, Options: []quiz.Option{
			{ID: "r", Text: "Red", IsCorrect: true},
			{ID: "g", Text: "Green", TextAlt: "हरा", IsCorrect: true},
		}},
	}}
	g := grading.Grade(q, grading.Answers{"q1": {"b"}, "q2": {"r", "g"}})
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("x", 3600))

	v := NewProjector(NewLanguages("en", "hi")).Project(Submitted{
		AttemptID: "att", Score: 1, TotalQuestions: 2, SubmittedAt: at, Language: "hi",
	}, q, g)

	if v.Score != 1 || v.TotalQuestions != 2 || v.Language != "hi" || !v.SubmittedAt.Equal(at) || v.SubmittedAt.Location() != time.UTC {
		t.Fatalf("unexpected aggregate: %+v", v)
	}
	q1 := v.Questions[0]
	if q1.Text != "फल?" || q1.IsCorrect {
		t.Fatalf("q1: %+v", q1)
	}
	if len(q1.CorrectOptions) != 1 || q1.CorrectOptions[0].Text != "सेब" {
		t.Fatalf("q1 correct options: %+v", q1.CorrectOptions)
	}
	if len(q1.UserSelected) != 1 || q1.UserSelected[0].Text != "Brick" {
		t.Fatalf("q1 selected should fall back to primary text: %+v", q1.UserSelected)
	}
	q2 := v.Questions[1]
	if q2.Text != "Colours?" || !q2.IsCorrect {
		t.Fatalf("q2: %+v", q2)
	}
	if q2.CorrectOptions[0].Text != "Red" || q2.CorrectOptions[1].Text != "हरा" {
		t.Fatalf("q2 correct options: %+v", q2.CorrectOptions)
	}
}

func TestProject_UnsupportedLanguageFallsBack(t *testing.T) {
	q := quiz.Quiz{Questions: []quiz.Question{
		{ID: "q1", Text: "Fruit?", TextAlt: "फल?", Type: quiz.SingleChoice, Options: []quiz.Option{{ID: "a", Text: "Apple", IsCorrect: true}}},
	}}
	g := grading.Grade(q, nil)
	v := NewProjector(NewLanguages("en", "hi")).Project(Submitted{AttemptID: "x", Language: "de"}, q, g)
	if v.Language != "en" || v.Questions[0].Text != "Fruit?" {
		t.Fatalf("unexpected: %+v", v)
	}
	if v.Questions[0].UserSelected == nil || len(v.Questions[0].UserSelected) != 0 {
		t.Fatalf("untouched question should render an empty selection, got %#v", v.Questions[0].UserSelected)
	}
}
