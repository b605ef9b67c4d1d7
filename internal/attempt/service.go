package attempt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/mindengage-quiz/internal/events"
	"github.com/mind-engage/mindengage-quiz/internal/grading"
	"github.com/mind-engage/mindengage-quiz/internal/metrics"
	"github.com/mind-engage/mindengage-quiz/internal/quiz"
	"github.com/mind-engage/mindengage-quiz/internal/results"
)

// Service runs the attempt lifecycle: start, answer, submit, results.
// It holds no per-attempt state of its own; everything lives in the Ledger.
type Service struct {
	quizzes   quiz.Store
	ledger    Ledger
	langs     *results.Languages
	projector *results.Projector
	publisher events.Publisher
	metrics   *metrics.Recorder
	now       func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option   { return func(s *Service) { s.now = now } }
func WithPublisher(p events.Publisher) Option { return func(s *Service) { s.publisher = p } }
func WithMetrics(m *metrics.Recorder) Option  { return func(s *Service) { s.metrics = m } }

func NewService(quizzes quiz.Store, ledger Ledger, langs *results.Languages, opts ...Option) *Service {
	s := &Service{
		quizzes:   quizzes,
		ledger:    ledger,
		langs:     langs,
		projector: results.NewProjector(langs),
		publisher: events.Nop{},
		now:       time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Start creates a new InProgress attempt. Every call creates a separate
// attempt, even for the same quiz and learner. Unsupported languages fall
// back to the primary language.
func (s *Service) Start(ctx context.Context, quizToken string, languages ...string) (Started, error) {
	h, err := s.quizzes.Header(ctx, quizToken)
	if err != nil {
		if errors.Is(err, quiz.ErrNotFound) {
			return Started{}, fmt.Errorf("quiz %q: %w", quizToken, ErrNotFound)
		}
		return Started{}, err
	}
	if !h.IsActive {
		return Started{}, fmt.Errorf("quiz %q: %w", quizToken, ErrInactive)
	}

	a := Attempt{
		ID:             uuid.NewString(),
		QuizID:         h.ID,
		Token:          strings.ReplaceAll(uuid.NewString(), "-", ""),
		Language:       s.langs.Resolve(languages...),
		StartedAt:      s.now().UTC().Truncate(time.Millisecond),
		TotalQuestions: h.QuestionCount,
	}
	if err := s.ledger.Create(ctx, a); err != nil {
		return Started{}, fmt.Errorf("create attempt: %w", err)
	}
	s.metrics.Started()

	return Started{
		AttemptID:       a.ID,
		Token:           a.Token,
		StartedAt:       a.StartedAt,
		Deadline:        a.StartedAt.Add(time.Duration(h.DurationMinutes) * time.Minute),
		DurationMinutes: h.DurationMinutes,
		TotalQuestions:  a.TotalQuestions,
		Language:        a.Language,
	}, nil
}

// SaveAnswer replaces the selection for one question. Calling it again with
// the same arguments leaves the stored state unchanged. An empty selection
// is allowed and means "no answer".
func (s *Service) SaveAnswer(ctx context.Context, attemptID, questionID string, optionIDs []string) error {
	a, err := s.ledger.Get(ctx, attemptID)
	if err != nil {
		return err
	}
	if a.Submitted {
		return ErrAlreadySubmitted
	}

	pq, err := s.quizzes.PublicQuizByID(ctx, a.QuizID)
	if err != nil {
		if errors.Is(err, quiz.ErrNotFound) {
			return fmt.Errorf("quiz of attempt %s: %w", attemptID, ErrNotFound)
		}
		return err
	}
	q, ok := pq.Question(questionID)
	if !ok {
		return fmt.Errorf("question %q: %w", questionID, ErrInvalidReference)
	}
	ids := dedupe(optionIDs)
	for _, id := range ids {
		if !q.HasOption(id) {
			return fmt.Errorf("option %q on question %q: %w", id, questionID, ErrInvalidReference)
		}
	}

	if err := s.ledger.SaveAnswer(ctx, attemptID, questionID, ids, s.now()); err != nil {
		return err
	}
	s.metrics.AnswerSaved()
	return nil
}

// Submit grades the journaled answers once and commits the result together
// with the rendered view. A second call, concurrent or not, fails with
// ErrAlreadySubmitted and changes nothing; callers should fetch Results
// instead. Once started, Submit runs to completion even if ctx is cancelled.
func (s *Service) Submit(ctx context.Context, attemptID string) (results.View, error) {
	ctx = context.WithoutCancel(ctx)

	a, err := s.ledger.Get(ctx, attemptID)
	if err != nil {
		return results.View{}, err
	}
	if a.Submitted {
		s.metrics.Conflict()
		return results.View{}, ErrAlreadySubmitted
	}

	q, err := s.gradingQuiz(ctx, a)
	if err != nil {
		return results.View{}, err
	}

	at := s.now().UTC().Truncate(time.Millisecond)
	var view results.View
	final, err := s.ledger.Finalize(ctx, attemptID, at, func(ans grading.Answers) (int, []byte, error) {
		g := grading.Grade(q, ans)
		view = s.projector.Project(results.Submitted{
			AttemptID:      a.ID,
			Score:          g.Score,
			TotalQuestions: a.TotalQuestions,
			SubmittedAt:    at,
			Language:       a.Language,
		}, q, g)
		buf, err := json.Marshal(view)
		return g.Score, buf, err
	})
	if err != nil {
		if errors.Is(err, ErrAlreadySubmitted) {
			s.metrics.Conflict()
		}
		return results.View{}, err
	}
	s.metrics.Submitted(*final.Score, final.TotalQuestions)

	ev := events.AttemptSubmitted{
		AttemptID:      final.ID,
		QuizID:         final.QuizID,
		Score:          *final.Score,
		TotalQuestions: final.TotalQuestions,
		SubmittedAt:    *final.SubmittedAt,
	}
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.publisher.PublishAttemptSubmitted(pctx, ev); err != nil {
		log.Printf("publish AttemptSubmitted %s: %v", final.ID, err)
	}
	return view, nil
}

// Results returns the graded view of a submitted attempt, exactly as Submit
// returned it. Later content edits do not change it.
func (s *Service) Results(ctx context.Context, attemptID string) (results.View, error) {
	a, err := s.ledger.Get(ctx, attemptID)
	if err != nil {
		return results.View{}, err
	}
	return storedView(a)
}

// ResultsByToken resolves the attempt's shareable link.
func (s *Service) ResultsByToken(ctx context.Context, token string) (results.View, error) {
	a, err := s.ledger.GetByToken(ctx, token)
	if err != nil {
		return results.View{}, err
	}
	return storedView(a)
}

func storedView(a Attempt) (results.View, error) {
	if !a.Submitted {
		return results.View{}, ErrNotSubmitted
	}
	var v results.View
	if err := json.Unmarshal(a.Graded, &v); err != nil {
		return results.View{}, fmt.Errorf("attempt %s graded view: %w", a.ID, err)
	}
	return v, nil
}

// Progress is the in-progress view used to resume an attempt. It carries the
// learner's own selections only.
func (s *Service) Progress(ctx context.Context, attemptID string) (Progress, error) {
	a, err := s.ledger.Get(ctx, attemptID)
	if err != nil {
		return Progress{}, err
	}
	h, err := s.quizzes.PublicQuizByID(ctx, a.QuizID)
	if err != nil {
		if errors.Is(err, quiz.ErrNotFound) {
			return Progress{}, fmt.Errorf("quiz of attempt %s: %w", attemptID, ErrNotFound)
		}
		return Progress{}, err
	}
	ans, err := s.ledger.Answers(ctx, a.ID)
	if err != nil {
		return Progress{}, err
	}
	return Progress{
		AttemptID:      a.ID,
		Status:         a.Status(),
		StartedAt:      a.StartedAt,
		Deadline:       a.StartedAt.Add(time.Duration(h.DurationMinutes) * time.Minute),
		TotalQuestions: a.TotalQuestions,
		Language:       a.Language,
		Answers:        ans,
	}, nil
}

func (s *Service) List(ctx context.Context, opts ListOpts) ([]Attempt, error) {
	return s.ledger.List(ctx, opts)
}

func (s *Service) gradingQuiz(ctx context.Context, a Attempt) (quiz.Quiz, error) {
	q, err := s.quizzes.GradingQuiz(ctx, a.QuizID)
	if err != nil {
		if errors.Is(err, quiz.ErrNotFound) {
			return quiz.Quiz{}, fmt.Errorf("quiz of attempt %s: %w", a.ID, ErrNotFound)
		}
		return quiz.Quiz{}, err
	}
	return q, nil
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
