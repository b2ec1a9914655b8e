package app

import (
	"context"

	"quiz-attempt-service/internal/domain"
	"quiz-attempt-service/internal/session"
)

// AttemptStore abstracts how live attempts are tracked (in-memory, Redis-backed).
type AttemptStore interface {
	// Replace installs the attempt under key and returns the one it displaced,
	// if any, so the caller can tear its clock down.
	Replace(key string, attempt *Attempt) *Attempt
	Get(key string) (*Attempt, bool)
	// Remove deletes and returns the attempt under key, if present.
	Remove(key string) (*Attempt, bool)
}

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// AttemptService owns the quiz-taking use cases: one live attempt per
// user+quiz, driven through the session controller.
type AttemptService struct {
	attempts AttemptStore
	quizzes  QuizRepository
	reporter session.ResultReporter
	opts     []session.Option
}

func NewAttemptService(store AttemptStore, quizzes QuizRepository, reporter session.ResultReporter, opts ...session.Option) *AttemptService {
	return &AttemptService{attempts: store, quizzes: quizzes, reporter: reporter, opts: opts}
}

// AttemptKey identifies one user's attempt at one quiz.
func AttemptKey(userID, quizID string) string {
	return userID + "/" + quizID
}

// Start loads the quiz, builds a fresh attempt, and begins the countdown. Any
// prior attempt for the same user+quiz is discarded first, clock included, so
// an orphaned timer can never fire into the new one. A load failure leaves no
// attempt registered.
func (s *AttemptService) Start(ctx context.Context, userID, quizID string) (session.Snapshot, error) {
	if userID == "" {
		return session.Snapshot{}, domain.ErrNoIdentity
	}
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return session.Snapshot{}, err
	}

	attempt := NewAttempt(userID, quiz, s.reporter, s.opts...)
	if err := attempt.Controller().Start(); err != nil {
		return session.Snapshot{}, err
	}

	if prev := s.attempts.Replace(AttemptKey(userID, quizID), attempt); prev != nil {
		prev.Close()
	}
	return attempt.Controller().Snapshot(), nil
}

// Retry discards the current attempt and starts over with empty answers and a
// full countdown.
func (s *AttemptService) Retry(ctx context.Context, userID, quizID string) (session.Snapshot, error) {
	return s.Start(ctx, userID, quizID)
}

// SelectAnswer records a selection on the live attempt.
func (s *AttemptService) SelectAnswer(userID, quizID, questionID, answerID string) (session.Snapshot, error) {
	attempt, ok := s.attempts.Get(AttemptKey(userID, quizID))
	if !ok {
		return session.Snapshot{}, domain.ErrAttemptNotFound
	}
	attempt.Controller().SelectAnswer(questionID, answerID)
	return attempt.Controller().Snapshot(), nil
}

// Next moves the current-question pointer forward.
func (s *AttemptService) Next(userID, quizID string) (session.Snapshot, error) {
	return s.navigate(userID, quizID, (*session.Controller).Next)
}

// Previous moves the current-question pointer back.
func (s *AttemptService) Previous(userID, quizID string) (session.Snapshot, error) {
	return s.navigate(userID, quizID, (*session.Controller).Previous)
}

// JumpTo moves the pointer to an arbitrary question.
func (s *AttemptService) JumpTo(userID, quizID string, index int) (session.Snapshot, error) {
	return s.navigate(userID, quizID, func(c *session.Controller) { c.JumpTo(index) })
}

// SetReviewing toggles review mode on the live attempt.
func (s *AttemptService) SetReviewing(userID, quizID string, on bool) (session.Snapshot, error) {
	return s.navigate(userID, quizID, func(c *session.Controller) { c.SetReviewing(on) })
}

func (s *AttemptService) navigate(userID, quizID string, op func(*session.Controller)) (session.Snapshot, error) {
	attempt, ok := s.attempts.Get(AttemptKey(userID, quizID))
	if !ok {
		return session.Snapshot{}, domain.ErrAttemptNotFound
	}
	op(attempt.Controller())
	return attempt.Controller().Snapshot(), nil
}

// Submit finalizes the attempt. Idempotent through the controller's latch.
func (s *AttemptService) Submit(userID, quizID string, cause session.SubmitCause) (session.Result, error) {
	attempt, ok := s.attempts.Get(AttemptKey(userID, quizID))
	if !ok {
		return session.Result{}, domain.ErrAttemptNotFound
	}
	return attempt.Controller().Submit(cause)
}

// Snapshot returns the live attempt's current state.
func (s *AttemptService) Snapshot(userID, quizID string) (session.Snapshot, error) {
	attempt, ok := s.attempts.Get(AttemptKey(userID, quizID))
	if !ok {
		return session.Snapshot{}, domain.ErrAttemptNotFound
	}
	return attempt.Controller().Snapshot(), nil
}

// Subscribe returns a channel of state updates for the live attempt. The
// caller must invoke the returned cancel function.
func (s *AttemptService) Subscribe(userID, quizID string) (<-chan session.Snapshot, func(), error) {
	attempt, ok := s.attempts.Get(AttemptKey(userID, quizID))
	if !ok {
		return nil, nil, domain.ErrAttemptNotFound
	}
	ch, cancel := attempt.Subscribe()
	return ch, cancel, nil
}

// Close discards the attempt entirely (disconnect, shutdown), stopping its
// clock without submitting.
func (s *AttemptService) Close(userID, quizID string) {
	if attempt, ok := s.attempts.Remove(AttemptKey(userID, quizID)); ok {
		attempt.Close()
	}
}
