package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/SAP-F-2025/session-engine/internal/events"
	"github.com/SAP-F-2025/session-engine/internal/models"
	"github.com/SAP-F-2025/session-engine/internal/repositories"
	"github.com/SAP-F-2025/session-engine/internal/session"
	"github.com/SAP-F-2025/session-engine/internal/timer"
	"github.com/SAP-F-2025/session-engine/internal/validator"
	"gorm.io/datatypes"
)

// ===== REQUEST / RESPONSE TYPES =====

type StartSessionRequest struct {
	AssessmentID string `json:"assessment_id" validate:"required"`
	StudentID    string `json:"student_id" validate:"required"`
}

type SubmitAnswerRequest struct {
	QuestionID string         `json:"question_id" validate:"required"`
	Value      datatypes.JSON `json:"value" validate:"required"`
}

type NavigateRequest struct {
	Action string `json:"action" validate:"required,oneof=next previous goto"`
	Index  *int   `json:"index" validate:"required_if=Action goto"`
}

// SessionService is the host-facing surface of the session engine. It
// resolves assessment definitions through the repository, keeps the live
// controllers, and persists/publishes results when sessions terminate.
type SessionService interface {
	Start(ctx context.Context, req *StartSessionRequest) (*models.Session, error)
	Begin(ctx context.Context, sessionID, studentID string) (*models.Session, error)
	Get(ctx context.Context, sessionID, studentID string) (*models.Session, error)
	Answer(ctx context.Context, sessionID, studentID string, req *SubmitAnswerRequest) error
	Navigate(ctx context.Context, sessionID, studentID string, req *NavigateRequest) (*models.Session, error)
	ToggleReview(ctx context.Context, sessionID, studentID, questionID string) (*models.Session, error)
	Submit(ctx context.Context, sessionID, studentID string) (*models.Result, error)
	Result(ctx context.Context, sessionID, studentID string) (*models.Result, error)
	TimeRemaining(ctx context.Context, sessionID, studentID string) (int, error)
	Abandon(ctx context.Context, sessionID, studentID string) error
}

type liveSession struct {
	controller *session.Controller
	studentID  string
	timeLimit  *int
}

type sessionService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
	clock     timer.Clock

	mu   sync.RWMutex
	live map[string]*liveSession
}

func NewSessionService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator, clock timer.Clock) SessionService {
	if clock == nil {
		clock = timer.NewClock()
	}
	return &sessionService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: v,
		clock:     clock,
		live:      make(map[string]*liveSession),
	}
}

// ===== LIFECYCLE =====

func (s *sessionService) Start(ctx context.Context, req *StartSessionRequest) (*models.Session, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	s.logger.Info("Starting session",
		"assessment_id", req.AssessmentID,
		"student_id", req.StudentID)

	// Any fetch failure is fatal here; no partial session is produced.
	assessment, err := s.repo.Assessment().GetByID(ctx, req.AssessmentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrAssessmentFetchFailed, err)
	}
	if len(assessment.Questions) == 0 {
		return nil, ErrAssessmentHasNoQuestions
	}

	controller, err := session.Start(assessment, req.StudentID,
		session.WithClock(s.clock),
		session.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}

	controller.OnResult(func(result *models.Result) {
		s.finalizeResult(result)
	})

	snapshot := controller.Snapshot()

	s.mu.Lock()
	s.live[snapshot.ID] = &liveSession{
		controller: controller,
		studentID:  req.StudentID,
		timeLimit:  assessment.TimeLimitSeconds,
	}
	s.mu.Unlock()

	return snapshot, nil
}

func (s *sessionService) Begin(ctx context.Context, sessionID, studentID string) (*models.Session, error) {
	ls, err := s.lookup(sessionID, studentID)
	if err != nil {
		return nil, err
	}

	if err := ls.controller.Begin(); err != nil {
		return nil, err
	}

	snapshot := ls.controller.Snapshot()
	if err := s.publisher.PublishSessionEvent(ctx, events.NewSessionStartedEvent(snapshot, ls.timeLimit)); err != nil {
		// Event delivery is best effort; the session is already running.
		s.logger.Error("Failed to publish session started event", "session_id", sessionID, "error", err)
	}

	return snapshot, nil
}

func (s *sessionService) Get(ctx context.Context, sessionID, studentID string) (*models.Session, error) {
	ls, err := s.lookup(sessionID, studentID)
	if err != nil {
		return nil, err
	}
	return ls.controller.Snapshot(), nil
}

// ===== COMMANDS =====

func (s *sessionService) Answer(ctx context.Context, sessionID, studentID string, req *SubmitAnswerRequest) error {
	if err := s.validator.ValidateStruct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	ls, err := s.lookup(sessionID, studentID)
	if err != nil {
		return err
	}
	return ls.controller.Answer(req.QuestionID, req.Value)
}

func (s *sessionService) Navigate(ctx context.Context, sessionID, studentID string, req *NavigateRequest) (*models.Session, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	ls, err := s.lookup(sessionID, studentID)
	if err != nil {
		return nil, err
	}

	switch req.Action {
	case "next":
		err = ls.controller.Next()
	case "previous":
		err = ls.controller.Previous()
	case "goto":
		err = ls.controller.GoTo(*req.Index)
	}
	if err != nil {
		return nil, err
	}
	return ls.controller.Snapshot(), nil
}

func (s *sessionService) ToggleReview(ctx context.Context, sessionID, studentID, questionID string) (*models.Session, error) {
	ls, err := s.lookup(sessionID, studentID)
	if err != nil {
		return nil, err
	}

	if err := ls.controller.ToggleReview(questionID); err != nil {
		return nil, err
	}
	return ls.controller.Snapshot(), nil
}

func (s *sessionService) Submit(ctx context.Context, sessionID, studentID string) (*models.Result, error) {
	ls, err := s.lookup(sessionID, studentID)
	if err != nil {
		return nil, err
	}
	return ls.controller.Submit()
}

func (s *sessionService) Result(ctx context.Context, sessionID, studentID string) (*models.Result, error) {
	ls, err := s.lookup(sessionID, studentID)
	if err == nil {
		if result, ok := ls.controller.Result(); ok {
			return result, nil
		}
		return nil, ErrResultNotReady
	}
	if !IsNotFound(err) {
		return nil, err
	}

	// The live controller may be long gone; fall back to storage.
	result, err := s.repo.Result().GetBySession(ctx, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to load result: %w", err)
	}
	if result.StudentID != studentID {
		return nil, ErrSessionNotOwned
	}
	return result, nil
}

func (s *sessionService) TimeRemaining(ctx context.Context, sessionID, studentID string) (int, error) {
	ls, err := s.lookup(sessionID, studentID)
	if err != nil {
		return 0, err
	}
	return ls.controller.TimeRemaining(), nil
}

// Abandon discards a live session without submitting. The countdown is
// cancelled first so no dangling expiry can fire afterwards.
func (s *sessionService) Abandon(ctx context.Context, sessionID, studentID string) error {
	ls, err := s.lookup(sessionID, studentID)
	if err != nil {
		return err
	}

	ls.controller.Cancel()

	s.mu.Lock()
	delete(s.live, sessionID)
	s.mu.Unlock()

	s.logger.Info("Session abandoned", "session_id", sessionID, "student_id", studentID)
	return nil
}

// ===== INTERNAL =====

func (s *sessionService) lookup(sessionID, studentID string) (*liveSession, error) {
	s.mu.RLock()
	ls, ok := s.live[sessionID]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	if ls.studentID != studentID {
		return nil, ErrSessionNotOwned
	}
	return ls, nil
}

// finalizeResult persists and publishes a terminal result. Failures here are
// logged and surfaced as events only: the in-memory result stays
// authoritative and the session's Submitted status is never rolled back.
func (s *sessionService) finalizeResult(result *models.Result) {
	ctx := context.Background()

	if err := s.repo.Result().Save(ctx, result); err != nil {
		s.logger.Error("Failed to persist result",
			"session_id", result.SessionID,
			"error", err)
	}

	if err := s.publisher.PublishSessionEvent(ctx, events.NewSessionSubmittedEvent(result)); err != nil {
		s.logger.Error("Failed to publish session submitted event",
			"session_id", result.SessionID,
			"error", err)
	}
}
