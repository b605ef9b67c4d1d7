package quiz

// QuestionType is the closed set of question kinds a quiz can hold.
type QuestionType string

const (
	SingleChoice   QuestionType = "SINGLE_CHOICE"
	MultipleChoice QuestionType = "MULTIPLE_CHOICE"
)

func (t QuestionType) Valid() bool {
	return t == SingleChoice || t == MultipleChoice
}

// Option is the authoring/grading view of a choice. IsCorrect never leaves
// the server before an attempt is submitted; learner reads use PublicOption.
type Option struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	TextAlt   string `json:"textAlt,omitempty"`
	IsCorrect bool   `json:"isCorrect"`
}

type Question struct {
	ID      string       `json:"id"`
	Text    string       `json:"text"`
	TextAlt string       `json:"textAlt,omitempty"`
	Type    QuestionType `json:"type"`
	Options []Option     `json:"options"`
}

type Quiz struct {
	ID              string     `json:"id"`
	Token           string     `json:"token"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	DurationMinutes int        `json:"durationMinutes"`
	IsActive        bool       `json:"isActive"`
	Questions       []Question `json:"questions"`
}

// Header is what starting an attempt needs to know about a quiz.
type Header struct {
	ID              string
	Token           string
	Title           string
	DurationMinutes int
	IsActive        bool
	QuestionCount   int
}

// --- learner-safe projection (no answer key) ---

type PublicOption struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	TextAlt string `json:"textAlt,omitempty"`
	Order   int    `json:"order"`
}

type PublicQuestion struct {
	ID      string         `json:"id"`
	Text    string         `json:"text"`
	TextAlt string         `json:"textAlt,omitempty"`
	Type    QuestionType   `json:"type"`
	Options []PublicOption `json:"options"`
}

type PublicQuiz struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Description     string           `json:"description,omitempty"`
	DurationMinutes int              `json:"durationMinutes"`
	IsActive        bool             `json:"isActive"`
	Questions       []PublicQuestion `json:"questions"`
}

// HasOption reports whether optionID belongs to the question.
func (q PublicQuestion) HasOption(optionID string) bool {
	for _, o := range q.Options {
		if o.ID == optionID {
			return true
		}
	}
	return false
}

// Question looks up a question by id.
func (p PublicQuiz) Question(id string) (PublicQuestion, bool) {
	for _, q := range p.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return PublicQuestion{}, false
}
