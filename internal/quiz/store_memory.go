package quiz

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu      sync.RWMutex
	byID    map[string]Quiz
	byToken map[string]string // token -> id
}

// NewInMemoryStore is used by tests and by local runs without a database.
func NewInMemoryStore() Store {
	return &memoryStore{
		byID:    map[string]Quiz{},
		byToken: map[string]string{},
	}
}

func (m *memoryStore) PutQuiz(_ context.Context, q Quiz) error {
	if err := Validate(q); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.byID[q.ID]; ok {
		delete(m.byToken, old.Token)
	}
	m.byID[q.ID] = cloneQuiz(q)
	m.byToken[q.Token] = q.ID
	return nil
}

func (m *memoryStore) byTokenLocked(token string) (Quiz, bool) {
	id, ok := m.byToken[token]
	if !ok {
		return Quiz{}, false
	}
	q, ok := m.byID[id]
	return q, ok
}

func (m *memoryStore) Header(_ context.Context, token string) (Header, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.byTokenLocked(token)
	if !ok {
		return Header{}, ErrNotFound
	}
	return headerOf(q), nil
}

func (m *memoryStore) PublicQuiz(_ context.Context, token string) (PublicQuiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.byTokenLocked(token)
	if !ok {
		return PublicQuiz{}, ErrNotFound
	}
	return ToPublic(q), nil
}

func (m *memoryStore) PublicQuizByID(_ context.Context, id string) (PublicQuiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.byID[id]
	if !ok {
		return PublicQuiz{}, ErrNotFound
	}
	return ToPublic(q), nil
}

func (m *memoryStore) GradingQuiz(_ context.Context, id string) (Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.byID[id]
	if !ok {
		return Quiz{}, ErrNotFound
	}
	return cloneQuiz(q), nil
}
