package models

import (
	"time"

	"gorm.io/datatypes"
)

type QuestionType string

const (
	SingleChoice QuestionType = "single_choice"
	TrueFalse    QuestionType = "true_false"
	MultiSelect  QuestionType = "multi_select"
	ShortAnswer  QuestionType = "short_answer"
)

// Assessment is the static definition of a test. Once a session holds a
// reference to it the definition is treated as read-only.
type Assessment struct {
	ID          string  `json:"id" gorm:"primaryKey;size:36" validate:"required,uuid"`
	Title       string  `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description *string `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`

	// TimeLimitSeconds is nil for untimed assessments.
	TimeLimitSeconds  *int    `json:"time_limit_seconds" validate:"omitempty,min=30,max=14400"`
	PassingPercentage float64 `json:"passing_percentage" gorm:"not null" validate:"min=0,max=100"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Questions are ordered by Position; the order is significant and fixed.
	Questions []Question `json:"questions" gorm:"foreignKey:AssessmentID" validate:"required,min=1,dive"`
}

func (Assessment) TableName() string {
	return "assessments"
}

func (a *Assessment) IsTimed() bool {
	return a.TimeLimitSeconds != nil && *a.TimeLimitSeconds > 0
}

// TotalPoints is the max score of every result computed for this assessment.
func (a *Assessment) TotalPoints() int {
	total := 0
	for i := range a.Questions {
		total += a.Questions[i].Points
	}
	return total
}

// QuestionByID returns the question with the given id, or nil.
func (a *Assessment) QuestionByID(id string) *Question {
	for i := range a.Questions {
		if a.Questions[i].ID == id {
			return &a.Questions[i]
		}
	}
	return nil
}

type Question struct {
	ID           string       `json:"id" gorm:"primaryKey;size:36" validate:"required"`
	AssessmentID string       `json:"assessment_id" gorm:"index;size:36"`
	Type         QuestionType `json:"type" gorm:"not null;size:20" validate:"required,question_type"`
	Text         string       `json:"text" gorm:"not null;type:text" validate:"required"`
	Points       int          `json:"points" gorm:"not null" validate:"required,min=1,max=100"`
	Position     int          `json:"position" gorm:"not null"`

	// Content holds the type-specific payload (options, correct answer)
	// as one of the *Content structs below.
	Content datatypes.JSON `json:"content" gorm:"type:jsonb" validate:"required"`
}

func (Question) TableName() string {
	return "questions"
}

type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type SingleChoiceContent struct {
	Options       []Option `json:"options"`
	CorrectOption string   `json:"correct_option"`
}

type TrueFalseContent struct {
	CorrectAnswer bool `json:"correct_answer"`
}

type MultiSelectContent struct {
	Options []Option `json:"options"`
	// CorrectOptions is compared as a set: same members, any order.
	CorrectOptions []string `json:"correct_options"`
}

type ShortAnswerContent struct {
	CorrectAnswer string `json:"correct_answer"`
	MaxLength     int    `json:"max_length"`
}
