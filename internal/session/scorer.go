package session

import (
	"math"

	"quiz-attempt-service/internal/domain"
)

// Score computes the points-weighted total for the given selections. A
// question counts when the selected answer id matches the question's first
// correct-flagged answer; questions with no correct answer contribute zero
// regardless of selection. Total over arbitrary input: never panics.
func Score(questions []domain.Question, answers map[string]string) int {
	total := 0
	for _, q := range questions {
		selected, ok := answers[q.ID]
		if !ok {
			continue
		}
		correctID, hasCorrect := q.CorrectAnswerID()
		if hasCorrect && selected == correctID {
			total += q.PointValue()
		}
	}
	return total
}

// CorrectCount returns how many questions were answered with the correct
// option, ignoring point weights.
func CorrectCount(questions []domain.Question, answers map[string]string) int {
	count := 0
	for _, q := range questions {
		selected, ok := answers[q.ID]
		if !ok {
			continue
		}
		correctID, hasCorrect := q.CorrectAnswerID()
		if hasCorrect && selected == correctID {
			count++
		}
	}
	return count
}

// Percent derives the display percentage from a correct count. It is never
// the value reported to the backend; the raw count stays canonical.
func Percent(correct, questionCount int) int {
	if questionCount <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(questionCount) * 100))
}
