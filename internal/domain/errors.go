package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrEmptyQuiz is returned when an attempt is started on a quiz with no questions.
	ErrEmptyQuiz = errors.New("quiz has no questions")
	// ErrNoIdentity is returned when no valid user credential accompanies a start.
	ErrNoIdentity = errors.New("no user identity")
	// ErrAttemptNotFound is returned when a user acts before starting an attempt.
	ErrAttemptNotFound = errors.New("attempt not found")
	// ErrNotStarted is returned when submit is called before the attempt began.
	ErrNotStarted = errors.New("attempt not started")
)
