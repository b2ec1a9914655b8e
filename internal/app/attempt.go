package app

import (
	"sync"

	"github.com/google/uuid"

	"quiz-attempt-service/internal/domain"
	"quiz-attempt-service/internal/session"
)

// Attempt binds one user's controller to its state subscribers. Retrying a
// quiz never reuses an Attempt: the service replaces it wholesale, which is
// what keeps at most one live countdown per user+quiz.
type Attempt struct {
	ID     string
	UserID string
	QuizID string

	ctrl *session.Controller

	mu          sync.Mutex
	closed      bool
	subscribers map[chan session.Snapshot]struct{}
}

// NewAttempt builds a fresh attempt around a new controller. The controller's
// update hook feeds the attempt's subscribers so timer ticks and forced
// submissions reach clients without polling.
func NewAttempt(userID string, quiz domain.Quiz, reporter session.ResultReporter, opts ...session.Option) *Attempt {
	a := &Attempt{
		ID:          uuid.NewString(),
		UserID:      userID,
		QuizID:      quiz.ID,
		subscribers: make(map[chan session.Snapshot]struct{}),
	}
	opts = append(opts, session.WithUpdateHook(a.broadcast))
	a.ctrl = session.NewController(quiz, userID, reporter, opts...)
	return a
}

// Controller exposes the underlying state machine.
func (a *Attempt) Controller() *session.Controller {
	return a.ctrl
}

// Subscribe returns a channel receiving state updates. The caller must invoke
// the returned cancel function to avoid leaks.
func (a *Attempt) Subscribe() (<-chan session.Snapshot, func()) {
	ch := make(chan session.Snapshot, 8)

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	a.subscribers[ch] = struct{}{}
	a.mu.Unlock()

	ch <- a.ctrl.Snapshot()

	cancel := func() {
		a.mu.Lock()
		if _, ok := a.subscribers[ch]; ok {
			delete(a.subscribers, ch)
			close(ch)
		}
		a.mu.Unlock()
	}
	return ch, cancel
}

func (a *Attempt) broadcast(snap session.Snapshot) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for ch := range a.subscribers {
		select {
		case ch <- snap:
		default:
			// Drop the stale update so a slow client never blocks the clock.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

// Close tears the attempt down: stops the countdown without submitting and
// closes all subscriber channels. Idempotent.
func (a *Attempt) Close() {
	a.ctrl.Teardown()

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.closed = true
	for ch := range a.subscribers {
		delete(a.subscribers, ch)
		close(ch)
	}
}
