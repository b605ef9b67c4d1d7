package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("quiz not found")

// Store is the read side of the content store plus an import entry point so
// quizzes can be seeded. Implementations must never return IsCorrect through
// the Public* methods.
type Store interface {
	PutQuiz(ctx context.Context, q Quiz) error
	Header(ctx context.Context, token string) (Header, error)
	PublicQuiz(ctx context.Context, token string) (PublicQuiz, error)
	PublicQuizByID(ctx context.Context, id string) (PublicQuiz, error)
	GradingQuiz(ctx context.Context, id string) (Quiz, error) // full, with answer key
}

// Validate checks the shape of an imported quiz. Correct-option counts are
// an authoring concern and are deliberately not checked here; grading copes
// with malformed keys.
func Validate(q Quiz) error {
	if strings.TrimSpace(q.ID) == "" {
		return errors.New("quiz: id required")
	}
	if strings.TrimSpace(q.Token) == "" {
		return errors.New("quiz: token required")
	}
	if strings.TrimSpace(q.Title) == "" {
		return errors.New("quiz: title required")
	}
	if q.DurationMinutes <= 0 {
		return errors.New("quiz: durationMinutes must be positive")
	}
	seenQ := map[string]struct{}{}
	seenO := map[string]struct{}{}
	for i, qq := range q.Questions {
		if qq.ID == "" {
			return fmt.Errorf("quiz: question %d: id required", i)
		}
		if _, dup := seenQ[qq.ID]; dup {
			return fmt.Errorf("quiz: duplicate question id %q", qq.ID)
		}
		seenQ[qq.ID] = struct{}{}
		if !qq.Type.Valid() {
			return fmt.Errorf("quiz: question %q: unknown type %q", qq.ID, qq.Type)
		}
		if len(qq.Options) == 0 {
			return fmt.Errorf("quiz: question %q: at least one option required", qq.ID)
		}
		for j, o := range qq.Options {
			if o.ID == "" {
				return fmt.Errorf("quiz: question %q option %d: id required", qq.ID, j)
			}
			if _, dup := seenO[o.ID]; dup {
				return fmt.Errorf("quiz: duplicate option id %q", o.ID)
			}
			seenO[o.ID] = struct{}{}
		}
	}
	return nil
}

// ToPublic strips the answer key.
func ToPublic(q Quiz) PublicQuiz {
	out := PublicQuiz{
		ID:              q.ID,
		Title:           q.Title,
		Description:     q.Description,
		DurationMinutes: q.DurationMinutes,
		IsActive:        q.IsActive,
		Questions:       make([]PublicQuestion, 0, len(q.Questions)),
	}
	for _, qq := range q.Questions {
		pq := PublicQuestion{
			ID:      qq.ID,
			Text:    qq.Text,
			TextAlt: qq.TextAlt,
			Type:    qq.Type,
			Options: make([]PublicOption, 0, len(qq.Options)),
		}
		for i, o := range qq.Options {
			pq.Options = append(pq.Options, PublicOption{ID: o.ID, Text: o.Text, TextAlt: o.TextAlt, Order: i})
		}
		out.Questions = append(out.Questions, pq)
	}
	return out
}

func headerOf(q Quiz) Header {
	return Header{
		ID:              q.ID,
		Token:           q.Token,
		Title:           q.Title,
		DurationMinutes: q.DurationMinutes,
		IsActive:        q.IsActive,
		QuestionCount:   len(q.Questions),
	}
}

func cloneQuiz(q Quiz) Quiz {
	out := q
	out.Questions = make([]Question, len(q.Questions))
	for i, qq := range q.Questions {
		out.Questions[i] = qq
		out.Questions[i].Options = append([]Option(nil), qq.Options...)
	}
	return out
}
