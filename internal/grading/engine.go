package grading

import (
	"sort"

	"github.com/mind-engage/mindengage-quiz/internal/quiz"
)

// Answers maps question id to the learner's selected option ids.
// A question with no entry was never answered.
type Answers map[string][]string

// QuestionResult is the outcome for one question. It carries the full
// correct set; deciding what may be shown is the caller's job.
type QuestionResult struct {
	QuestionID string
	Type       quiz.QuestionType
	Correct    bool
	// Malformed is set when the answer key breaks the type's invariant
	// (no correct option, or several on a single-choice question).
	Malformed         bool
	CorrectOptionIDs  []string
	SelectedOptionIDs []string
}

// Result is the graded outcome of one attempt.
type Result struct {
	Score     int
	Total     int
	Questions []QuestionResult
}

// rule decides correctness for one question type. Both sets are
// de-duplicated.
type rule func(correct, selected map[string]struct{}) (ok, malformed bool)

var rules = map[quiz.QuestionType]rule{
	quiz.SingleChoice:   singleChoice,
	quiz.MultipleChoice: multipleChoice,
}

// Grade scores answers against q. It is deterministic, has no side effects
// and never fails: malformed content or unknown types grade as incorrect.
func Grade(q quiz.Quiz, answers Answers) Result {
	res := Result{
		Total:     len(q.Questions),
		Questions: make([]QuestionResult, 0, len(q.Questions)),
	}
	for _, qq := range q.Questions {
		qr := gradeQuestion(qq, answers[qq.ID])
		if qr.Correct {
			res.Score++
		}
		res.Questions = append(res.Questions, qr)
	}
	return res
}

func gradeQuestion(q quiz.Question, selectedIDs []string) QuestionResult {
	correct := map[string]struct{}{}
	for _, o := range q.Options {
		if o.IsCorrect {
			correct[o.ID] = struct{}{}
		}
	}
	selected := toSet(selectedIDs)

	qr := QuestionResult{
		QuestionID:        q.ID,
		Type:              q.Type,
		CorrectOptionIDs:  inOptionOrder(q.Options, correct),
		SelectedOptionIDs: inOptionOrder(q.Options, selected),
	}

	r, ok := rules[q.Type]
	if !ok {
		qr.Malformed = true
		return qr
	}
	qr.Correct, qr.Malformed = r(correct, selected)
	return qr
}

// singleChoice: exactly one selection, exactly one correct option, and they
// are the same option.
func singleChoice(correct, selected map[string]struct{}) (bool, bool) {
	if len(correct) != 1 {
		return false, true
	}
	if len(selected) != 1 {
		return false, false
	}
	for id := range selected {
		_, ok := correct[id]
		return ok, false
	}
	return false, false
}

// multipleChoice: exact set match, no partial credit.
func multipleChoice(correct, selected map[string]struct{}) (bool, bool) {
	if len(correct) == 0 {
		return false, true
	}
	return setEqual(correct, selected), false
}

func toSet(arr []string) map[string]struct{} {
	m := make(map[string]struct{}, len(arr))
	for _, s := range arr {
		m[s] = struct{}{}
	}
	return m
}

func setEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

// inOptionOrder lists the members of set following the question's option
// order. Ids the question no longer has (content edited after answering)
// go last, sorted.
func inOptionOrder(opts []quiz.Option, set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	known := make(map[string]struct{}, len(opts))
	for _, o := range opts {
		known[o.ID] = struct{}{}
		if _, ok := set[o.ID]; ok {
			out = append(out, o.ID)
		}
	}
	var extra []string
	for id := range set {
		if _, ok := known[id]; !ok {
			extra = append(extra, id)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}
