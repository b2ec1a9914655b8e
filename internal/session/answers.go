package session

// AnswerSet holds the user's current selections keyed by question id. An
// absent key means unanswered. It is not safe for concurrent use on its own;
// the controller serializes access.
type AnswerSet struct {
	selected map[string]string
}

// NewAnswerSet returns an empty answer set.
func NewAnswerSet() *AnswerSet {
	return &AnswerSet{selected: make(map[string]string)}
}

// Select records answerID for questionID, overwriting any prior selection.
func (s *AnswerSet) Select(questionID, answerID string) {
	s.selected[questionID] = answerID
}

// Get returns the selected answer id for a question, if any.
func (s *AnswerSet) Get(questionID string) (string, bool) {
	id, ok := s.selected[questionID]
	return id, ok
}

// Len reports how many questions have been answered.
func (s *AnswerSet) Len() int {
	return len(s.selected)
}

// Snapshot copies the current selections. Scoring reads the snapshot taken
// at submit time, never a map captured earlier.
func (s *AnswerSet) Snapshot() map[string]string {
	out := make(map[string]string, len(s.selected))
	for q, a := range s.selected {
		out[q] = a
	}
	return out
}
