package attempt

import (
	"context"
	"time"

	"github.com/mind-engage/mindengage-quiz/internal/grading"
)

// GradeFunc grades the journaled answers and renders the submitted view.
// Finalize stores both with the terminal write, so the graded outcome never
// changes afterwards. It runs inside Finalize's critical section and must
// not block.
type GradeFunc func(grading.Answers) (score int, graded []byte, err error)

// Ledger persists attempts and their answer journal.
//
// SaveAnswer and Finalize both re-check the InProgress state atomically with
// their write, so callers may race them freely: Finalize sees an answer
// either in full or not at all, and exactly one Finalize per attempt wins.
type Ledger interface {
	Create(ctx context.Context, a Attempt) error
	Get(ctx context.Context, id string) (Attempt, error)
	GetByToken(ctx context.Context, token string) (Attempt, error)
	List(ctx context.Context, opts ListOpts) ([]Attempt, error)

	// SaveAnswer replaces the selection for (attemptID, questionID).
	SaveAnswer(ctx context.Context, attemptID, questionID string, optionIDs []string, at time.Time) error
	Answers(ctx context.Context, attemptID string) (grading.Answers, error)

	// Finalize moves the attempt to Submitted with the score and graded view
	// grade returns. It fails with ErrAlreadySubmitted if another call got
	// there first.
	Finalize(ctx context.Context, attemptID string, at time.Time, grade GradeFunc) (Attempt, error)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	if limit > 200 {
		return 200
	}
	return limit
}
