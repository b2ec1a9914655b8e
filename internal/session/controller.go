package session

import (
	"context"
	"log"
	"sync"
	"time"

	"quiz-attempt-service/internal/domain"
)

// State is the attempt lifecycle state.
type State string

const (
	StateNotStarted State = "NOT_STARTED"
	StateInProgress State = "IN_PROGRESS"
	StateSubmitted  State = "SUBMITTED"
)

// SubmitCause records what triggered a submission.
type SubmitCause string

const (
	CauseManual  SubmitCause = "MANUAL"
	CauseTimeout SubmitCause = "TIMEOUT"
)

// DefaultDurationSeconds applies when a quiz carries no time limit and the
// deployment configured none.
const DefaultDurationSeconds = 600

// ResultReporter receives the final raw score once per attempt. Calls are
// fire-and-forget: the controller neither blocks on nor retries them.
type ResultReporter interface {
	ReportScore(ctx context.Context, userID, quizID string, score int) error
}

// Result summarizes a submitted attempt. Score is the canonical
// points-weighted value sent to the reporter; Percent is display-only.
type Result struct {
	Score   int         `json:"score"`
	Correct int         `json:"correct"`
	Total   int         `json:"total"`
	Percent int         `json:"percent"`
	Cause   SubmitCause `json:"cause"`
}

// Snapshot is the controller's externally visible state for rendering.
type Snapshot struct {
	State            State             `json:"state"`
	Reviewing        bool              `json:"reviewing"`
	Index            int               `json:"index"`
	QuestionCount    int               `json:"questionCount"`
	RemainingSeconds int               `json:"remainingSeconds"`
	Answers          map[string]string `json:"answers"`
	Result           *Result           `json:"result,omitempty"`
}

// Controller drives one user's timed attempt at one quiz from start to scored
// result. All operations are synchronous and serialized by one mutex, which
// is what closes the race between the countdown expiry and a manual submit:
// whichever acquires the lock first trips the latch, the other becomes a
// no-op. A retry never reuses a Controller; the app layer builds a fresh one.
type Controller struct {
	quiz     domain.Quiz
	userID   string
	reporter ResultReporter

	tickInterval   time.Duration
	defaultSeconds int
	onUpdate       func(Snapshot)

	mu        sync.Mutex
	state     State
	reviewing bool
	answers   *AnswerSet
	index     int
	clock     *Clock
	submitted bool
	result    Result
}

// Option configures a Controller.
type Option func(*Controller)

// WithTickInterval overrides the 1s clock resolution, for tests.
func WithTickInterval(d time.Duration) Option {
	return func(c *Controller) { c.tickInterval = d }
}

// WithDefaultDuration sets the fallback duration for quizzes without a time limit.
func WithDefaultDuration(seconds int) Option {
	return func(c *Controller) { c.defaultSeconds = seconds }
}

// WithUpdateHook registers an observer invoked after clock ticks and
// submissions. Used by the app layer to push state to subscribers.
func WithUpdateHook(fn func(Snapshot)) Option {
	return func(c *Controller) { c.onUpdate = fn }
}

// NewController builds a controller for one attempt. The quiz is treated as
// immutable for the attempt's lifetime.
func NewController(quiz domain.Quiz, userID string, reporter ResultReporter, opts ...Option) *Controller {
	c := &Controller{
		quiz:           quiz,
		userID:         userID,
		reporter:       reporter,
		tickInterval:   time.Second,
		defaultSeconds: DefaultDurationSeconds,
		state:          StateNotStarted,
		answers:        NewAnswerSet(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start transitions NOT_STARTED -> IN_PROGRESS: resets answers, moves the
// pointer to question 0, and starts the countdown. Starting an attempt that
// already ran is a no-op. An empty question list or missing identity keeps
// the attempt at NOT_STARTED.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateNotStarted {
		return nil
	}
	if c.userID == "" {
		return domain.ErrNoIdentity
	}
	if len(c.quiz.Questions) == 0 {
		return domain.ErrEmptyQuiz
	}

	c.answers = NewAnswerSet()
	c.index = 0
	c.reviewing = false
	c.state = StateInProgress
	c.clock = StartClock(c.durationSeconds(), c.tickInterval, c.notifyTick, c.expire)
	return nil
}

func (c *Controller) durationSeconds() int {
	if c.quiz.TimeLimitMinutes > 0 {
		return c.quiz.TimeLimitMinutes * 60
	}
	if c.defaultSeconds > 0 {
		return c.defaultSeconds
	}
	return DefaultDurationSeconds
}

// SelectAnswer upserts the selection for a question. Permitted any number of
// times before submission; afterwards (or before start) it is a silent
// no-op so that stray late events cannot corrupt a finished attempt.
func (c *Controller) SelectAnswer(questionID, answerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateInProgress {
		return
	}
	if !c.hasQuestion(questionID) {
		return
	}
	c.answers.Select(questionID, answerID)
}

func (c *Controller) hasQuestion(id string) bool {
	for _, q := range c.quiz.Questions {
		if q.ID == id {
			return true
		}
	}
	return false
}

// Next advances the current-question pointer. No-op at the last question.
func (c *Controller) Next() {
	c.jump(func(i int) int { return i + 1 })
}

// Previous moves the pointer back. No-op at question 0.
func (c *Controller) Previous() {
	c.jump(func(i int) int { return i - 1 })
}

// JumpTo moves the pointer to an arbitrary index, clamped to valid bounds.
func (c *Controller) JumpTo(index int) {
	c.jump(func(int) int { return index })
}

func (c *Controller) jump(move func(int) int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateInProgress {
		return
	}
	next := move(c.index)
	if next < 0 {
		next = 0
	}
	if max := len(c.quiz.Questions) - 1; next > max {
		next = max
	}
	c.index = next
}

// SetReviewing toggles the review view. Review mode does not pause the clock.
func (c *Controller) SetReviewing(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateInProgress {
		return
	}
	c.reviewing = on
}

// Submit transitions IN_PROGRESS -> SUBMITTED. The single-fire latch makes
// the call idempotent: once submitted, later calls return the recorded result
// unchanged regardless of cause. The score is computed from the answer set as
// it stands at this call, the clock is stopped unconditionally, and the
// reporter is dispatched without blocking the transition.
func (c *Controller) Submit(cause SubmitCause) (Result, error) {
	c.mu.Lock()
	if c.state == StateNotStarted {
		c.mu.Unlock()
		return Result{}, domain.ErrNotStarted
	}
	if c.submitted {
		res := c.result
		c.mu.Unlock()
		return res, nil
	}
	c.submitted = true
	c.state = StateSubmitted
	c.reviewing = false
	if c.clock != nil {
		c.clock.Stop()
	}

	answers := c.answers.Snapshot()
	correct := CorrectCount(c.quiz.Questions, answers)
	c.result = Result{
		Score:   Score(c.quiz.Questions, answers),
		Correct: correct,
		Total:   len(c.quiz.Questions),
		Percent: Percent(correct, len(c.quiz.Questions)),
		Cause:   cause,
	}
	res := c.result
	reporter := c.reporter
	userID, quizID := c.userID, c.quiz.ID
	c.mu.Unlock()

	if reporter != nil {
		go func() {
			// Failure must never alter the submitted state or the shown score.
			if err := reporter.ReportScore(context.Background(), userID, quizID, res.Score); err != nil {
				log.Printf("report score for quiz %s user %s: %v", quizID, userID, err)
			}
		}()
	}
	c.notify()
	return res, nil
}

// expire is the clock's expiry hook: a forced submission.
func (c *Controller) expire() {
	_, _ = c.Submit(CauseTimeout)
}

// Teardown stops the countdown without submitting. Idempotent; called when
// an attempt is discarded (retry, disconnect, shutdown).
func (c *Controller) Teardown() {
	c.mu.Lock()
	clock := c.clock
	c.mu.Unlock()
	if clock != nil {
		clock.Stop()
	}
}

// Snapshot returns the current externally visible state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:         c.state,
		Reviewing:     c.reviewing,
		Index:         c.index,
		QuestionCount: len(c.quiz.Questions),
		Answers:       c.answers.Snapshot(),
	}
	if c.clock != nil && c.state == StateInProgress {
		snap.RemainingSeconds = c.clock.Remaining()
	}
	if c.submitted {
		res := c.result
		snap.Result = &res
	}
	return snap
}

func (c *Controller) notifyTick(int) {
	c.notify()
}

func (c *Controller) notify() {
	if c.onUpdate == nil {
		return
	}
	c.onUpdate(c.Snapshot())
}
