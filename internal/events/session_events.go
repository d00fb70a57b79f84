package events

import (
	"time"

	"github.com/SAP-F-2025/session-engine/internal/models"
	"github.com/google/uuid"
)

// EventType represents the session lifecycle events the engine announces
type EventType string

const (
	EventSessionStarted   EventType = "session.started"
	EventSessionSubmitted EventType = "session.submitted"
)

const (
	eventSource  = "session-engine"
	eventVersion = "1.0"
)

// SessionEvent is the base event structure for all session events
type SessionEvent struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Data      interface{} `json:"data"`
}

// SessionStartedEvent announces a learner beginning an attempt
type SessionStartedEvent struct {
	SessionID        string    `json:"session_id"`
	AssessmentID     string    `json:"assessment_id"`
	StudentID        string    `json:"student_id"`
	TimeLimitSeconds *int      `json:"time_limit_seconds,omitempty"`
	StartedAt        time.Time `json:"started_at"`
}

// SessionSubmittedEvent carries the scored outcome once a session reaches
// its terminal state, whether submitted manually or by timer expiry
type SessionSubmittedEvent struct {
	SessionID    string              `json:"session_id"`
	AssessmentID string              `json:"assessment_id"`
	StudentID    string              `json:"student_id"`
	Score        int                 `json:"score"`
	MaxScore     int                 `json:"max_score"`
	Percentage   float64             `json:"percentage"`
	Passed       bool                `json:"passed"`
	FeedbackTier models.FeedbackTier `json:"feedback_tier"`
	CompletedAt  time.Time           `json:"completed_at"`
}

// NewSessionStartedEvent builds the envelope for a started session
func NewSessionStartedEvent(sess *models.Session, timeLimitSeconds *int) *SessionEvent {
	return newEvent(EventSessionStarted, SessionStartedEvent{
		SessionID:        sess.ID,
		AssessmentID:     sess.AssessmentID,
		StudentID:        sess.StudentID,
		TimeLimitSeconds: timeLimitSeconds,
		StartedAt:        derefTime(sess.StartedAt),
	})
}

// NewSessionSubmittedEvent builds the envelope for a submitted result
func NewSessionSubmittedEvent(result *models.Result) *SessionEvent {
	return newEvent(EventSessionSubmitted, SessionSubmittedEvent{
		SessionID:    result.SessionID,
		AssessmentID: result.AssessmentID,
		StudentID:    result.StudentID,
		Score:        result.Score,
		MaxScore:     result.MaxScore,
		Percentage:   result.Percentage,
		Passed:       result.Passed,
		FeedbackTier: result.FeedbackTier,
		CompletedAt:  result.CompletedAt,
	})
}

func newEvent(eventType EventType, data interface{}) *SessionEvent {
	return &SessionEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
