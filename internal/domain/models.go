package domain

// Answer is one selectable option on a question.
type Answer struct {
	ID      string `json:"id"`
	Text    string `json:"answerText"`
	Correct bool   `json:"isCorrect"`
}

// Question models an MCQ question. Authoring guarantees exactly one correct
// answer; the engine tolerates malformed data (zero or several flagged).
type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"questionText"`
	Points  int      `json:"points"` // defaults to 1 if zero
	Answers []Answer `json:"answers"`
}

// Quiz is the normalized load contract: whatever shape the authoring backend
// serves, loaders produce exactly this.
type Quiz struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Category         string     `json:"category"`
	TimeLimitMinutes int        `json:"timeLimitMinutes,omitempty"`
	Questions        []Question `json:"questions"`
}

// CorrectAnswerID returns the id of the first answer flagged correct, or
// false if the question has none. Total over malformed input.
func (q Question) CorrectAnswerID() (string, bool) {
	for _, a := range q.Answers {
		if a.Correct {
			return a.ID, true
		}
	}
	return "", false
}

// PointValue returns the question's point value, defaulting to 1.
func (q Question) PointValue() int {
	if q.Points > 0 {
		return q.Points
	}
	return 1
}
