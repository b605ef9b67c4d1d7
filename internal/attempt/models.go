package attempt

import (
	"time"
)

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusSubmitted  Status = "submitted"
)

// Attempt is one learner's timed run through a quiz. It is created
// InProgress and moves to Submitted exactly once; after that nothing on it
// changes.
type Attempt struct {
	ID             string     `json:"attemptId"`
	QuizID         string     `json:"quizId"`
	Token          string     `json:"token"` // shareable result link
	Language       string     `json:"language"`
	StartedAt      time.Time  `json:"startedAt"`
	TotalQuestions int        `json:"totalQuestions"`
	Submitted      bool       `json:"submitted"`
	SubmittedAt    *time.Time `json:"submittedAt,omitempty"`
	Score          *int       `json:"score,omitempty"`
	Graded         []byte     `json:"-"` // result view frozen at submission
}

func (a Attempt) Status() Status {
	if a.Submitted {
		return StatusSubmitted
	}
	return StatusInProgress
}

// Started is returned by StartAttempt. Deadline is only advisory: the client
// runs the countdown and calls Submit when it reaches zero.
type Started struct {
	AttemptID       string    `json:"attemptId"`
	Token           string    `json:"token"`
	StartedAt       time.Time `json:"startedAt"`
	Deadline        time.Time `json:"deadline"`
	DurationMinutes int       `json:"durationMinutes"`
	TotalQuestions  int       `json:"totalQuestions"`
	Language        string    `json:"language"`
}

// Progress is the pre-submission view of an attempt: what the learner has
// selected so far, never whether it is right.
type Progress struct {
	AttemptID      string              `json:"attemptId"`
	Status         Status              `json:"status"`
	StartedAt      time.Time           `json:"startedAt"`
	Deadline       time.Time           `json:"deadline"`
	TotalQuestions int                 `json:"totalQuestions"`
	Language       string              `json:"language"`
	Answers        map[string][]string `json:"answers"`
}

type ListOpts struct {
	QuizID string
	Status Status // optional
	Limit  int
	Offset int
}
