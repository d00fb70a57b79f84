package validator

import (
	"encoding/json"
	"testing"

	"github.com/SAP-F-2025/session-engine/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func singleChoiceQuestion(t *testing.T, id string, points int) models.Question {
	t.Helper()
	return models.Question{
		ID:     id,
		Type:   models.SingleChoice,
		Text:   "What is the capital of France?",
		Points: points,
		Content: mustJSON(t, models.SingleChoiceContent{
			Options: []models.Option{
				{ID: "a", Text: "Paris"},
				{ID: "b", Text: "Lyon"},
				{ID: "c", Text: "Marseille"},
			},
			CorrectOption: "a",
		}),
	}
}

func multiSelectQuestion(t *testing.T, id string, points int, correct []string) models.Question {
	t.Helper()
	return models.Question{
		ID:     id,
		Type:   models.MultiSelect,
		Text:   "Which of these are prime numbers?",
		Points: points,
		Content: mustJSON(t, models.MultiSelectContent{
			Options: []models.Option{
				{ID: "A", Text: "2"},
				{ID: "B", Text: "3"},
				{ID: "C", Text: "5"},
				{ID: "D", Text: "6"},
			},
			CorrectOptions: correct,
		}),
	}
}

func shortAnswerQuestion(t *testing.T, id string, points int, correct string) models.Question {
	t.Helper()
	return models.Question{
		ID:     id,
		Type:   models.ShortAnswer,
		Text:   "Name the capital of France.",
		Points: points,
		Content: mustJSON(t, models.ShortAnswerContent{
			CorrectAnswer: correct,
		}),
	}
}

func answerOf(t *testing.T, questionID string, value interface{}) *models.Answer {
	t.Helper()
	return &models.Answer{
		QuestionID: questionID,
		Value:      mustJSON(t, value),
	}
}

// ===== DEFINITION VALIDATION =====

func TestValidateDefinition(t *testing.T) {
	v := NewQuestionValidator()

	t.Run("nil assessment", func(t *testing.T) {
		assert.Error(t, v.ValidateDefinition(nil))
	})

	t.Run("no questions", func(t *testing.T) {
		err := v.ValidateDefinition(&models.Assessment{ID: "a1", Title: "Empty"})
		assert.ErrorContains(t, err, "at least 1 question")
	})

	t.Run("duplicate question ids", func(t *testing.T) {
		err := v.ValidateDefinition(&models.Assessment{
			ID:    "a1",
			Title: "Dup",
			Questions: []models.Question{
				singleChoiceQuestion(t, "q1", 10),
				singleChoiceQuestion(t, "q1", 10),
			},
		})
		assert.ErrorContains(t, err, "duplicate question id")
	})

	t.Run("valid definition", func(t *testing.T) {
		err := v.ValidateDefinition(&models.Assessment{
			ID:    "a1",
			Title: "OK",
			Questions: []models.Question{
				singleChoiceQuestion(t, "q1", 10),
				multiSelectQuestion(t, "q2", 10, []string{"A", "B"}),
				shortAnswerQuestion(t, "q3", 5, "Paris"),
			},
		})
		assert.NoError(t, err)
	})
}

func TestValidate_CombinesStructTagsAndContentChecks(t *testing.T) {
	v := New()

	id := "5f1b0f88-5a62-4e1f-9a54-2a3a1f1b0f88"

	t.Run("valid assessment", func(t *testing.T) {
		err := v.Validate(&models.Assessment{
			ID:                id,
			Title:             "OK",
			PassingPercentage: 50,
			Questions: []models.Question{
				singleChoiceQuestion(t, "q1", 10),
			},
		})
		assert.NoError(t, err)
	})

	t.Run("struct tag violation", func(t *testing.T) {
		err := v.Validate(&models.Assessment{
			ID:                id,
			PassingPercentage: 50,
			Questions: []models.Question{
				singleChoiceQuestion(t, "q1", 10),
			},
		})
		assert.ErrorContains(t, err, "title")
	})

	t.Run("content violation", func(t *testing.T) {
		bad := singleChoiceQuestion(t, "q1", 10)
		bad.Content = mustJSON(t, models.SingleChoiceContent{
			Options:       []models.Option{{ID: "a", Text: "Paris"}},
			CorrectOption: "z",
		})
		err := v.Validate(&models.Assessment{
			ID:                id,
			Title:             "Bad content",
			PassingPercentage: 50,
			Questions:         []models.Question{bad},
		})
		assert.Error(t, err)
	})
}

func TestValidateContent(t *testing.T) {
	v := NewQuestionValidator()

	tests := []struct {
		name    string
		qType   models.QuestionType
		content interface{}
		wantErr string
	}{
		{
			name:  "single choice valid",
			qType: models.SingleChoice,
			content: models.SingleChoiceContent{
				Options:       []models.Option{{ID: "a", Text: "Yes"}, {ID: "b", Text: "No"}},
				CorrectOption: "a",
			},
		},
		{
			name:  "single choice too few options",
			qType: models.SingleChoice,
			content: models.SingleChoiceContent{
				Options:       []models.Option{{ID: "a", Text: "Yes"}},
				CorrectOption: "a",
			},
			wantErr: "at least 2 options",
		},
		{
			name:  "single choice dangling correct option",
			qType: models.SingleChoice,
			content: models.SingleChoiceContent{
				Options:       []models.Option{{ID: "a", Text: "Yes"}, {ID: "b", Text: "No"}},
				CorrectOption: "z",
			},
			wantErr: "does not match any option",
		},
		{
			name:    "true false valid",
			qType:   models.TrueFalse,
			content: models.TrueFalseContent{CorrectAnswer: true},
		},
		{
			name:  "multi select no correct options",
			qType: models.MultiSelect,
			content: models.MultiSelectContent{
				Options: []models.Option{{ID: "A", Text: "2"}, {ID: "B", Text: "3"}},
			},
			wantErr: "at least 1 correct option",
		},
		{
			name:  "multi select dangling correct option",
			qType: models.MultiSelect,
			content: models.MultiSelectContent{
				Options:        []models.Option{{ID: "A", Text: "2"}, {ID: "B", Text: "3"}},
				CorrectOptions: []string{"A", "Z"},
			},
			wantErr: "does not match any option",
		},
		{
			name:    "short answer blank correct answer",
			qType:   models.ShortAnswer,
			content: models.ShortAnswerContent{CorrectAnswer: "   "},
			wantErr: "must have a correct answer",
		},
		{
			name:    "short answer over max length",
			qType:   models.ShortAnswer,
			content: models.ShortAnswerContent{CorrectAnswer: "Paris", MaxLength: 3},
			wantErr: "exceeds max length",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateContent(tt.qType, mustJSON(t, tt.content))
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}

	t.Run("unsupported type", func(t *testing.T) {
		err := v.ValidateContent("essay", []byte(`{}`))
		assert.ErrorContains(t, err, "unsupported question type")
	})

	t.Run("empty content", func(t *testing.T) {
		err := v.ValidateContent(models.SingleChoice, nil)
		assert.ErrorContains(t, err, "cannot be empty")
	})
}

// ===== ANSWER EVALUATION =====

func TestIsCorrect_SingleChoice(t *testing.T) {
	v := NewQuestionValidator()
	q := singleChoiceQuestion(t, "q1", 10)

	assert.True(t, v.IsCorrect(&q, answerOf(t, "q1", models.SingleChoiceAnswer{SelectedOption: "a"})))
	assert.False(t, v.IsCorrect(&q, answerOf(t, "q1", models.SingleChoiceAnswer{SelectedOption: "b"})))
	assert.False(t, v.IsCorrect(&q, answerOf(t, "q1", models.SingleChoiceAnswer{})))
	assert.False(t, v.IsCorrect(&q, nil))
}

func TestIsCorrect_TrueFalse(t *testing.T) {
	v := NewQuestionValidator()
	q := models.Question{
		ID:      "q1",
		Type:    models.TrueFalse,
		Text:    "The sky is blue.",
		Points:  5,
		Content: mustJSON(t, models.TrueFalseContent{CorrectAnswer: true}),
	}

	assert.True(t, v.IsCorrect(&q, answerOf(t, "q1", models.TrueFalseAnswer{Answer: true})))
	assert.False(t, v.IsCorrect(&q, answerOf(t, "q1", models.TrueFalseAnswer{Answer: false})))
}

func TestIsCorrect_MultiSelect(t *testing.T) {
	v := NewQuestionValidator()
	q := multiSelectQuestion(t, "q1", 10, []string{"A", "B", "C"})

	tests := []struct {
		name     string
		selected []string
		want     bool
	}{
		{"exact set", []string{"A", "B", "C"}, true},
		{"exact set reordered", []string{"C", "A", "B"}, true},
		{"subset is incorrect", []string{"A", "C"}, false},
		{"superset is incorrect", []string{"A", "B", "C", "D"}, false},
		{"disjoint is incorrect", []string{"D"}, false},
		{"empty selection is incorrect", nil, false},
		{"duplicates collapse to the same set", []string{"A", "A", "B", "C"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.IsCorrect(&q, answerOf(t, "q1", models.MultiSelectAnswer{SelectedOptions: tt.selected}))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsCorrect_ShortAnswer(t *testing.T) {
	v := NewQuestionValidator()
	q := shortAnswerQuestion(t, "q1", 5, "Paris")

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"exact match", "Paris", true},
		{"case insensitive", "PARIS", true},
		{"surrounding whitespace ignored", "  paris  ", true},
		{"different word", "Lyon", false},
		{"empty text", "", false},
		{"whitespace only", "   ", false},
		{"internal whitespace is significant", "Pa ris", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.IsCorrect(&q, answerOf(t, "q1", models.ShortAnswerText{Text: tt.text}))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsCorrect_MalformedAnswer(t *testing.T) {
	v := NewQuestionValidator()
	q := singleChoiceQuestion(t, "q1", 10)

	// Malformed payloads are incorrect, never an error or panic.
	assert.False(t, v.IsCorrect(&q, &models.Answer{QuestionID: "q1", Value: []byte(`not json`)}))
	assert.False(t, v.IsCorrect(&q, &models.Answer{QuestionID: "q1"}))
	assert.False(t, v.IsCorrect(nil, answerOf(t, "q1", models.SingleChoiceAnswer{SelectedOption: "a"})))
}
