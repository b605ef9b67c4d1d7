package events

import (
	"context"
	"time"
)

// AttemptSubmitted is emitted once per attempt, after its terminal write.
type AttemptSubmitted struct {
	AttemptID      string    `json:"attemptId"`
	QuizID         string    `json:"quizId"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	SubmittedAt    time.Time `json:"submittedAt"`
}

type Publisher interface {
	PublishAttemptSubmitted(ctx context.Context, e AttemptSubmitted) error
}

// Nop drops events. Used when no broker is configured.
type Nop struct{}

func (Nop) PublishAttemptSubmitted(context.Context, AttemptSubmitted) error { return nil }
