package attempt

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mind-engage/mindengage-quiz/internal/grading"
)

type memoryLedger struct {
	mu       sync.Mutex
	attempts map[string]Attempt
	tokens   map[string]string              // token -> attempt id
	answers  map[string]map[string][]string // attempt id -> question id -> option ids
}

// NewInMemoryLedger keeps everything behind one mutex, which makes every
// check-and-write trivially atomic.
func NewInMemoryLedger() Ledger {
	return &memoryLedger{
		attempts: map[string]Attempt{},
		tokens:   map[string]string{},
		answers:  map[string]map[string][]string{},
	}
}

func (m *memoryLedger) Create(_ context.Context, a Attempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts[a.ID] = a
	m.tokens[a.Token] = a.ID
	m.answers[a.ID] = map[string][]string{}
	return nil
}

func (m *memoryLedger) Get(_ context.Context, id string) (Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.attempts[id]
	if !ok {
		return Attempt{}, ErrNotFound
	}
	return a, nil
}

func (m *memoryLedger) GetByToken(ctx context.Context, token string) (Attempt, error) {
	m.mu.Lock()
	id, ok := m.tokens[token]
	m.mu.Unlock()
	if !ok {
		return Attempt{}, ErrNotFound
	}
	return m.Get(ctx, id)
}

func (m *memoryLedger) List(_ context.Context, opts ListOpts) ([]Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Attempt{}
	for _, a := range m.attempts {
		if opts.QuizID != "" && a.QuizID != opts.QuizID {
			continue
		}
		if opts.Status != "" && a.Status() != opts.Status {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(out) {
		return []Attempt{}, nil
	}
	out = out[offset:]
	if limit := clampLimit(opts.Limit); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryLedger) SaveAnswer(_ context.Context, attemptID, questionID string, optionIDs []string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.attempts[attemptID]
	if !ok {
		return ErrNotFound
	}
	if a.Submitted {
		return ErrAlreadySubmitted
	}
	m.answers[attemptID][questionID] = append([]string{}, optionIDs...)
	return nil
}

func (m *memoryLedger) Answers(_ context.Context, attemptID string) (grading.Answers, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.attempts[attemptID]; !ok {
		return nil, ErrNotFound
	}
	return m.copyAnswers(attemptID), nil
}

func (m *memoryLedger) Finalize(_ context.Context, attemptID string, at time.Time, grade GradeFunc) (Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.attempts[attemptID]
	if !ok {
		return Attempt{}, ErrNotFound
	}
	if a.Submitted {
		return Attempt{}, ErrAlreadySubmitted
	}
	score, graded, err := grade(m.copyAnswers(attemptID))
	if err != nil {
		return Attempt{}, err
	}
	at = at.UTC().Truncate(time.Millisecond)
	a.Submitted = true
	a.SubmittedAt = &at
	a.Score = &score
	a.Graded = append([]byte(nil), graded...)
	m.attempts[attemptID] = a
	return a, nil
}

func (m *memoryLedger) copyAnswers(attemptID string) grading.Answers {
	out := grading.Answers{}
	for q, ids := range m.answers[attemptID] {
		out[q] = append([]string{}, ids...)
	}
	return out
}
