package validator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/SAP-F-2025/session-engine/internal/models"
)

// QuestionValidator handles per-type validation of question definitions and
// evaluation of captured answers. It is stateless and safe for concurrent use.
type QuestionValidator struct{}

// NewQuestionValidator creates a new question validator
func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ===== DEFINITION VALIDATION =====

// ValidateDefinition validates a complete assessment definition before a
// session may be created for it.
func (v *QuestionValidator) ValidateDefinition(assessment *models.Assessment) error {
	if assessment == nil {
		return fmt.Errorf("assessment cannot be nil")
	}
	if len(assessment.Questions) == 0 {
		return fmt.Errorf("assessment must have at least 1 question")
	}

	seen := make(map[string]bool, len(assessment.Questions))
	for i := range assessment.Questions {
		q := &assessment.Questions[i]
		if q.ID == "" {
			return fmt.Errorf("question %d has no id", i+1)
		}
		if seen[q.ID] {
			return fmt.Errorf("duplicate question id '%s'", q.ID)
		}
		seen[q.ID] = true

		if err := v.ValidateQuestion(q); err != nil {
			return fmt.Errorf("validation failed for question '%s': %w", q.ID, err)
		}
	}
	return nil
}

// ValidateQuestion validates a single question object
func (v *QuestionValidator) ValidateQuestion(question *models.Question) error {
	if question.Text == "" {
		return fmt.Errorf("question text is required")
	}
	if question.Points < 1 {
		return fmt.Errorf("question points must be positive")
	}
	return v.ValidateContent(question.Type, question.Content)
}

// ValidateContent validates question content based on question type
func (v *QuestionValidator) ValidateContent(questionType models.QuestionType, content []byte) error {
	if len(content) == 0 {
		return fmt.Errorf("content cannot be empty")
	}

	switch questionType {
	case models.SingleChoice:
		return v.validateSingleChoiceContent(content)
	case models.TrueFalse:
		return v.validateTrueFalseContent(content)
	case models.MultiSelect:
		return v.validateMultiSelectContent(content)
	case models.ShortAnswer:
		return v.validateShortAnswerContent(content)
	default:
		return fmt.Errorf("unsupported question type: %s", questionType)
	}
}

func (v *QuestionValidator) validateSingleChoiceContent(content []byte) error {
	var scContent models.SingleChoiceContent
	if err := json.Unmarshal(content, &scContent); err != nil {
		return fmt.Errorf("invalid single choice content structure: %w", err)
	}

	if len(scContent.Options) < 2 {
		return fmt.Errorf("single choice questions must have at least 2 options")
	}

	optionIDs := make(map[string]bool, len(scContent.Options))
	for _, option := range scContent.Options {
		if option.ID == "" || option.Text == "" {
			return fmt.Errorf("options must have both ID and text")
		}
		optionIDs[option.ID] = true
	}

	if !optionIDs[scContent.CorrectOption] {
		return fmt.Errorf("correct option '%s' does not match any option", scContent.CorrectOption)
	}
	return nil
}

func (v *QuestionValidator) validateTrueFalseContent(content []byte) error {
	var tfContent models.TrueFalseContent
	if err := json.Unmarshal(content, &tfContent); err != nil {
		return fmt.Errorf("invalid true/false content structure: %w", err)
	}
	return nil
}

func (v *QuestionValidator) validateMultiSelectContent(content []byte) error {
	var msContent models.MultiSelectContent
	if err := json.Unmarshal(content, &msContent); err != nil {
		return fmt.Errorf("invalid multi select content structure: %w", err)
	}

	if len(msContent.Options) < 2 {
		return fmt.Errorf("multi select questions must have at least 2 options")
	}
	if len(msContent.CorrectOptions) == 0 {
		return fmt.Errorf("multi select questions must have at least 1 correct option")
	}

	optionIDs := make(map[string]bool, len(msContent.Options))
	for _, option := range msContent.Options {
		if option.ID == "" || option.Text == "" {
			return fmt.Errorf("options must have both ID and text")
		}
		optionIDs[option.ID] = true
	}

	for _, correctID := range msContent.CorrectOptions {
		if !optionIDs[correctID] {
			return fmt.Errorf("correct option '%s' does not match any option", correctID)
		}
	}
	return nil
}

func (v *QuestionValidator) validateShortAnswerContent(content []byte) error {
	var saContent models.ShortAnswerContent
	if err := json.Unmarshal(content, &saContent); err != nil {
		return fmt.Errorf("invalid short answer content structure: %w", err)
	}

	if strings.TrimSpace(saContent.CorrectAnswer) == "" {
		return fmt.Errorf("short answer questions must have a correct answer")
	}
	if saContent.MaxLength != 0 && len(saContent.CorrectAnswer) > saContent.MaxLength {
		return fmt.Errorf("correct answer exceeds max length of %d", saContent.MaxLength)
	}
	return nil
}

// ===== ANSWER EVALUATION =====

// IsCorrect reports whether the captured answer is correct for the question.
// A missing or malformed answer is simply incorrect; evaluation never fails.
func (v *QuestionValidator) IsCorrect(question *models.Question, answer *models.Answer) bool {
	if question == nil || answer == nil || len(answer.Value) == 0 {
		return false
	}

	switch question.Type {
	case models.SingleChoice:
		return v.evaluateSingleChoice(question.Content, answer.Value)
	case models.TrueFalse:
		return v.evaluateTrueFalse(question.Content, answer.Value)
	case models.MultiSelect:
		return v.evaluateMultiSelect(question.Content, answer.Value)
	case models.ShortAnswer:
		return v.evaluateShortAnswer(question.Content, answer.Value)
	default:
		return false
	}
}

func (v *QuestionValidator) evaluateSingleChoice(content, value []byte) bool {
	var scContent models.SingleChoiceContent
	if err := json.Unmarshal(content, &scContent); err != nil {
		return false
	}
	var scAnswer models.SingleChoiceAnswer
	if err := json.Unmarshal(value, &scAnswer); err != nil {
		return false
	}
	return scAnswer.SelectedOption != "" && scAnswer.SelectedOption == scContent.CorrectOption
}

func (v *QuestionValidator) evaluateTrueFalse(content, value []byte) bool {
	var tfContent models.TrueFalseContent
	if err := json.Unmarshal(content, &tfContent); err != nil {
		return false
	}
	var tfAnswer models.TrueFalseAnswer
	if err := json.Unmarshal(value, &tfAnswer); err != nil {
		return false
	}
	return tfAnswer.Answer == tfContent.CorrectAnswer
}

// evaluateMultiSelect requires set equality: same members, any order, no
// extras and no omissions. Supersets and subsets are incorrect.
func (v *QuestionValidator) evaluateMultiSelect(content, value []byte) bool {
	var msContent models.MultiSelectContent
	if err := json.Unmarshal(content, &msContent); err != nil {
		return false
	}
	var msAnswer models.MultiSelectAnswer
	if err := json.Unmarshal(value, &msAnswer); err != nil {
		return false
	}

	correct := make(map[string]bool, len(msContent.CorrectOptions))
	for _, id := range msContent.CorrectOptions {
		correct[id] = true
	}

	selected := make(map[string]bool, len(msAnswer.SelectedOptions))
	for _, id := range msAnswer.SelectedOptions {
		if !correct[id] {
			return false
		}
		selected[id] = true
	}
	return len(selected) == len(correct)
}

// evaluateShortAnswer matches the trimmed, case-folded text exactly.
func (v *QuestionValidator) evaluateShortAnswer(content, value []byte) bool {
	var saContent models.ShortAnswerContent
	if err := json.Unmarshal(content, &saContent); err != nil {
		return false
	}
	var saAnswer models.ShortAnswerText
	if err := json.Unmarshal(value, &saAnswer); err != nil {
		return false
	}

	candidate := strings.TrimSpace(saAnswer.Text)
	if candidate == "" {
		return false
	}
	return strings.EqualFold(candidate, strings.TrimSpace(saContent.CorrectAnswer))
}
