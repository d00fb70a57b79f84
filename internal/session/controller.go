package session

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/SAP-F-2025/session-engine/internal/models"
	"github.com/SAP-F-2025/session-engine/internal/scoring"
	"github.com/SAP-F-2025/session-engine/internal/timer"
	"github.com/SAP-F-2025/session-engine/internal/validator"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Controller owns a single session and drives its state machine:
//
//	NotStarted --Begin--> InProgress --Submit--> Submitted (terminal)
//
// Submit is the only path to Submitted, reachable from an explicit user
// command or from timer expiry. The controller serializes both triggers
// behind one mutex, so the transition happens exactly once; a late duplicate
// trigger observes Submitted and gets the already-computed result back.
type Controller struct {
	mu sync.Mutex

	assessment *models.Assessment
	sess       *models.Session
	countdown  *timer.Countdown
	clock      timer.Clock
	scorer     *scoring.Engine
	logger     *slog.Logger

	result      *models.Result
	subscribers []func(*models.Result)
}

type Option func(*Controller)

// WithClock substitutes the clock source, mainly for tests.
func WithClock(clock timer.Clock) Option {
	return func(c *Controller) {
		c.clock = clock
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// Start validates the definition and constructs a session in NotStarted.
// Nothing is armed yet; callers create a new controller per logical attempt.
func Start(assessment *models.Assessment, studentID string, opts ...Option) (*Controller, error) {
	if err := validator.NewQuestionValidator().ValidateDefinition(assessment); err != nil {
		return nil, err
	}

	c := &Controller{
		assessment: assessment,
		clock:      timer.NewClock(),
		scorer:     scoring.NewEngine(),
		logger:     slog.Default(),
		sess: &models.Session{
			ID:              uuid.NewString(),
			AssessmentID:    assessment.ID,
			StudentID:       studentID,
			Status:          models.SessionNotStarted,
			Answers:         make(map[string]models.Answer),
			MarkedForReview: make(map[string]bool),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Begin moves the session to InProgress and, for timed assessments, arms the
// countdown. If the countdown cannot be armed the session stays NotStarted.
func (c *Controller) Begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess.Status != models.SessionNotStarted {
		return ErrInvalidState
	}

	if c.assessment.IsTimed() {
		limit := *c.assessment.TimeLimitSeconds
		countdown := timer.NewCountdown(c.clock)
		if err := countdown.Arm(limit, c.handleTick, c.handleExpiry); err != nil {
			return fmt.Errorf("%w: %v", ErrTimerUnavailable, err)
		}
		c.countdown = countdown

		remaining := limit
		c.sess.RemainingSeconds = &remaining
	}

	now := c.clock.Now()
	c.sess.StartedAt = &now
	c.sess.Status = models.SessionInProgress

	c.logger.Info("session started",
		"session_id", c.sess.ID,
		"assessment_id", c.assessment.ID,
		"timed", c.assessment.IsTimed())
	return nil
}

// Answer stores or overwrites the response for a question. Correctness is
// not evaluated here; the learner may revise freely until submission.
func (c *Controller) Answer(questionID string, value datatypes.JSON) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess.Status != models.SessionInProgress {
		return ErrInvalidState
	}
	if c.assessment.QuestionByID(questionID) == nil {
		return ErrQuestionNotFound
	}

	c.sess.Answers[questionID] = models.Answer{
		QuestionID: questionID,
		Value:      append(value[:0:0], value...),
		CapturedAt: c.clock.Now(),
	}
	return nil
}

// GoTo jumps to a question by index. Out-of-range indexes are rejected with
// no state change.
func (c *Controller) GoTo(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess.Status != models.SessionInProgress {
		return ErrInvalidState
	}
	if index < 0 || index >= len(c.assessment.Questions) {
		return ErrIndexOutOfRange
	}
	c.sess.CurrentIndex = index
	return nil
}

// Next advances to the following question, clamped at the last one.
func (c *Controller) Next() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess.Status != models.SessionInProgress {
		return ErrInvalidState
	}
	if c.sess.CurrentIndex < len(c.assessment.Questions)-1 {
		c.sess.CurrentIndex++
	}
	return nil
}

// Previous moves back one question, clamped at the first one.
func (c *Controller) Previous() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess.Status != models.SessionInProgress {
		return ErrInvalidState
	}
	if c.sess.CurrentIndex > 0 {
		c.sess.CurrentIndex--
	}
	return nil
}

// ToggleReview flips the marked-for-review flag on a question. Purely
// advisory; has no effect on scoring.
func (c *Controller) ToggleReview(questionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess.Status != models.SessionInProgress {
		return ErrInvalidState
	}
	if c.assessment.QuestionByID(questionID) == nil {
		return ErrQuestionNotFound
	}

	if c.sess.MarkedForReview[questionID] {
		delete(c.sess.MarkedForReview, questionID)
	} else {
		c.sess.MarkedForReview[questionID] = true
	}
	return nil
}

// Submit finalizes the session and computes the result. It is exactly-once:
// if the session is already submitted the stored result is returned and
// nothing is recomputed, which makes the race between a manual submit and a
// timer expiry safe regardless of which trigger arrives first.
func (c *Controller) Submit() (*models.Result, error) {
	c.mu.Lock()

	if c.sess.Status == models.SessionSubmitted {
		result := c.result
		c.mu.Unlock()
		return result, nil
	}
	if c.sess.Status != models.SessionInProgress {
		c.mu.Unlock()
		return nil, ErrInvalidState
	}

	now := c.clock.Now()
	c.sess.SubmittedAt = &now
	c.sess.Status = models.SessionSubmitted

	result := c.scorer.Score(c.assessment, c.sess.Answers)
	result.ID = uuid.NewString()
	result.SessionID = c.sess.ID
	result.StudentID = c.sess.StudentID
	result.TimeSpentSeconds = int(now.Sub(*c.sess.StartedAt).Seconds())
	result.CompletedAt = now
	c.result = result

	countdown := c.countdown
	subscribers := append([]func(*models.Result){}, c.subscribers...)
	c.mu.Unlock()

	if countdown != nil {
		countdown.Cancel()
	}

	c.logger.Info("session submitted",
		"session_id", result.SessionID,
		"score", result.Score,
		"max_score", result.MaxScore,
		"percentage", result.Percentage,
		"tier", result.FeedbackTier)

	for _, notify := range subscribers {
		notify(result)
	}
	return result, nil
}

// Cancel stops the countdown without submitting. Hosts discarding a session
// early must call this so a dangling expiry cannot fire later.
func (c *Controller) Cancel() {
	c.mu.Lock()
	countdown := c.countdown
	c.mu.Unlock()

	if countdown != nil {
		countdown.Cancel()
	}
}

// Snapshot returns a read-only deep copy of the session for rendering.
func (c *Controller) Snapshot() *models.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess.Clone()
}

// Result returns the computed result once the session is submitted.
func (c *Controller) Result() (*models.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result, c.result != nil
}

// TimeRemaining reports the countdown state; untimed sessions report 0.
func (c *Controller) TimeRemaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess.RemainingSeconds == nil {
		return 0
	}
	return *c.sess.RemainingSeconds
}

// OnResult subscribes to the submitted result. If the session is already
// submitted the callback fires immediately.
func (c *Controller) OnResult(fn func(*models.Result)) {
	c.mu.Lock()
	result := c.result
	if result == nil {
		c.subscribers = append(c.subscribers, fn)
	}
	c.mu.Unlock()

	if result != nil {
		fn(result)
	}
}

func (c *Controller) handleTick(remaining int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Ticks racing a submit observe the terminal state and stop mutating.
	if c.sess.Status != models.SessionInProgress {
		return
	}
	if remaining < 0 {
		remaining = 0
	}
	r := remaining
	c.sess.RemainingSeconds = &r
}

func (c *Controller) handleExpiry() {
	c.logger.Info("time limit reached, auto-submitting", "session_id", c.sess.ID)
	if _, err := c.Submit(); err != nil {
		c.logger.Error("auto-submit failed", "session_id", c.sess.ID, "error", err)
	}
}
