package models

import "time"

type FeedbackTier string

const (
	TierExcellent   FeedbackTier = "excellent"
	TierGreat       FeedbackTier = "great"
	TierGood        FeedbackTier = "good"
	TierFair        FeedbackTier = "fair"
	TierNeedsReview FeedbackTier = "needs-review"
)

// Result is the scored outcome of a submitted session. All scoring fields
// are a pure function of the assessment definition and the final answer map;
// recomputing from the same inputs yields the same values.
type Result struct {
	ID           string `json:"id" gorm:"primaryKey;size:36"`
	SessionID    string `json:"session_id" gorm:"not null;uniqueIndex;size:36"`
	AssessmentID string `json:"assessment_id" gorm:"not null;index;size:36"`
	StudentID    string `json:"student_id" gorm:"index;size:64"`

	Score          int     `json:"score"`
	MaxScore       int     `json:"max_score"`
	Percentage     float64 `json:"percentage"`
	CorrectCount   int     `json:"correct_count"`
	TotalQuestions int     `json:"total_questions"`

	PerQuestionCorrectness map[string]bool `json:"per_question_correctness" gorm:"serializer:json;type:jsonb"`

	TimeSpentSeconds int          `json:"time_spent_seconds"`
	FeedbackTier     FeedbackTier `json:"feedback_tier" gorm:"size:20"`
	Feedback         string       `json:"feedback" gorm:"type:text"`
	Passed           bool         `json:"passed"`
	CompletedAt      time.Time    `json:"completed_at"`
}

func (Result) TableName() string {
	return "results"
}
