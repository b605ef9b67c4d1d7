package results

import (
	"time"

	"github.com/mind-engage/mindengage-quiz/internal/grading"
	"github.com/mind-engage/mindengage-quiz/internal/quiz"
)

type OptionView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type QuestionView struct {
	QuestionID     string            `json:"questionId"`
	Text           string            `json:"text"`
	Type           quiz.QuestionType `json:"type"`
	IsCorrect      bool              `json:"isCorrect"`
	CorrectOptions []OptionView      `json:"correctOptions"`
	UserSelected   []OptionView      `json:"userSelected"`
}

// View is the graded, localized result of a submitted attempt.
type View struct {
	AttemptID      string         `json:"attemptId"`
	Score          int            `json:"score"`
	TotalQuestions int            `json:"totalQuestions"`
	SubmittedAt    time.Time      `json:"submittedAt"`
	Language       string         `json:"language"`
	Questions      []QuestionView `json:"questions"`
}

// Submitted is the terminal outcome of an attempt.
type Submitted struct {
	AttemptID      string
	Score          int
	TotalQuestions int
	SubmittedAt    time.Time
	Language       string
}

type Projector struct {
	langs *Languages
}

func NewProjector(langs *Languages) *Projector {
	return &Projector{langs: langs}
}

// Project renders a graded attempt. It runs once per attempt, at
// submission; the rendered View is what results are served from.
func (p *Projector) Project(s Submitted, q quiz.Quiz, g grading.Result) View {
	lang := p.langs.Resolve(s.Language)
	byID := make(map[string]quiz.Question, len(q.Questions))
	for _, qq := range q.Questions {
		byID[qq.ID] = qq
	}

	v := View{
		AttemptID:      s.AttemptID,
		Score:          s.Score,
		TotalQuestions: s.TotalQuestions,
		SubmittedAt:    s.SubmittedAt.UTC(),
		Language:       lang,
		Questions:      make([]QuestionView, 0, len(g.Questions)),
	}
	for _, qr := range g.Questions {
		qq := byID[qr.QuestionID]
		v.Questions = append(v.Questions, QuestionView{
			QuestionID:     qr.QuestionID,
			Text:           p.langs.Text(lang, qq.Text, qq.TextAlt),
			Type:           qr.Type,
			IsCorrect:      qr.Correct,
			CorrectOptions: p.options(lang, qq, qr.CorrectOptionIDs),
			UserSelected:   p.options(lang, qq, qr.SelectedOptionIDs),
		})
	}
	return v
}

func (p *Projector) options(lang string, q quiz.Question, ids []string) []OptionView {
	out := make([]OptionView, 0, len(ids))
	for _, id := range ids {
		ov := OptionView{ID: id}
		for _, o := range q.Options {
			if o.ID == id {
				ov.Text = p.langs.Text(lang, o.Text, o.TextAlt)
				break
			}
		}
		out = append(out, ov)
	}
	return out
}
