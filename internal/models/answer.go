package models

import (
	"time"

	"gorm.io/datatypes"
)

// Per-type answer payloads. The stored Answer.Value is one of these,
// matching the question's type.

type SingleChoiceAnswer struct {
	SelectedOption string `json:"selected_option"`
}

type TrueFalseAnswer struct {
	Answer bool `json:"answer"`
}

type MultiSelectAnswer struct {
	SelectedOptions []string `json:"selected_options"`
}

type ShortAnswerText struct {
	Text string `json:"text"`
}

// Answer is one captured response. A session keeps at most one Answer per
// question id; re-answering overwrites (last write wins).
type Answer struct {
	QuestionID string         `json:"question_id"`
	Value      datatypes.JSON `json:"value"`
	CapturedAt time.Time      `json:"captured_at"`
}
