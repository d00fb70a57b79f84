package models

import "time"

type SessionStatus string

const (
	SessionNotStarted SessionStatus = "not_started"
	SessionInProgress SessionStatus = "in_progress"
	SessionSubmitted  SessionStatus = "submitted"
)

// Session is one learner's attempt at an assessment. It is owned exclusively
// by its session controller; everything handed out to callers is a deep copy.
//
// Status only moves forward: not_started -> in_progress -> submitted.
type Session struct {
	ID           string        `json:"id"`
	AssessmentID string        `json:"assessment_id"`
	StudentID    string        `json:"student_id"`
	Status       SessionStatus `json:"status"`

	CurrentIndex    int               `json:"current_index"`
	Answers         map[string]Answer `json:"answers"`
	MarkedForReview map[string]bool   `json:"marked_for_review"`

	// RemainingSeconds is present iff the assessment is timed. It is
	// non-increasing while in progress and frozen once submitted.
	RemainingSeconds *int `json:"remaining_seconds,omitempty"`

	StartedAt   *time.Time `json:"started_at,omitempty"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
}

// Clone returns a deep copy safe to hand to renderers.
func (s *Session) Clone() *Session {
	out := *s

	out.Answers = make(map[string]Answer, len(s.Answers))
	for id, ans := range s.Answers {
		cp := ans
		cp.Value = append(cp.Value[:0:0], ans.Value...)
		out.Answers[id] = cp
	}

	out.MarkedForReview = make(map[string]bool, len(s.MarkedForReview))
	for id := range s.MarkedForReview {
		out.MarkedForReview[id] = true
	}

	if s.RemainingSeconds != nil {
		remaining := *s.RemainingSeconds
		out.RemainingSeconds = &remaining
	}
	if s.StartedAt != nil {
		started := *s.StartedAt
		out.StartedAt = &started
	}
	if s.SubmittedAt != nil {
		submitted := *s.SubmittedAt
		out.SubmittedAt = &submitted
	}
	return &out
}
