package scoring

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

// threeQuestionAssessment is 10 + 10 + 5 points: a single choice, a true/false
// and a short answer.
func threeQuestionAssessment(t *testing.T, passing float64) *models.Assessment {
	t.Helper()
	return &models.Assessment{
		ID:                "a1",
		Title:             "Geography basics",
		PassingPercentage: passing,
		Questions: []models.Question{
			{
				ID: "q1", Type: models.SingleChoice, Text: "Capital of France?", Points: 10, Position: 0,
				Content: mustJSON(t, models.SingleChoiceContent{
					Options:       []models.Option{{ID: "a", Text: "Paris"}, {ID: "b", Text: "Lyon"}},
					CorrectOption: "a",
				}),
			},
			{
				ID: "q2", Type: models.TrueFalse, Text: "The Seine flows through Paris.", Points: 10, Position: 1,
				Content: mustJSON(t, models.TrueFalseContent{CorrectAnswer: true}),
			},
			{
				ID: "q3", Type: models.ShortAnswer, Text: "Largest country by area?", Points: 5, Position: 2,
				Content: mustJSON(t, models.ShortAnswerContent{CorrectAnswer: "Russia"}),
			},
		},
	}
}

func answers(t *testing.T, values map[string]interface{}) map[string]models.Answer {
	t.Helper()
	out := make(map[string]models.Answer, len(values))
	for id, v := range values {
		out[id] = models.Answer{QuestionID: id, Value: mustJSON(t, v)}
	}
	return out
}

func TestScore_PartialCredit(t *testing.T) {
	engine := NewEngine()
	assessment := threeQuestionAssessment(t, 50)

	// Two of three correct: 20 of 25 points, 80%.
	result := engine.Score(assessment, answers(t, map[string]interface{}{
		"q1": models.SingleChoiceAnswer{SelectedOption: "a"},
		"q2": models.TrueFalseAnswer{Answer: true},
		"q3": models.ShortAnswerText{Text: "Canada"},
	}))

	assert.Equal(t, 20, result.Score)
	assert.Equal(t, 25, result.MaxScore)
	assert.InDelta(t, 80.0, result.Percentage, 0.001)
	assert.Equal(t, 2, result.CorrectCount)
	assert.Equal(t, 3, result.TotalQuestions)
	assert.Equal(t, models.TierGreat, result.FeedbackTier)
	assert.True(t, result.Passed)

	assert.Equal(t, map[string]bool{"q1": true, "q2": true, "q3": false}, result.PerQuestionCorrectness)
	assert.Contains(t, result.Feedback, "You scored 2 out of 3 questions correctly.")
}

func TestScore_NoAnswers(t *testing.T) {
	engine := NewEngine()
	assessment := threeQuestionAssessment(t, 50)

	result := engine.Score(assessment, map[string]models.Answer{})

	assert.Equal(t, 0, result.Score)
	assert.Equal(t, 25, result.MaxScore)
	assert.Zero(t, result.Percentage)
	assert.Equal(t, 0, result.CorrectCount)
	assert.Equal(t, models.TierNeedsReview, result.FeedbackTier)
	assert.False(t, result.Passed)
	for _, correct := range result.PerQuestionCorrectness {
		assert.False(t, correct)
	}
}

func TestScore_Deterministic(t *testing.T) {
	engine := NewEngine()
	assessment := threeQuestionAssessment(t, 50)
	ans := answers(t, map[string]interface{}{
		"q1": models.SingleChoiceAnswer{SelectedOption: "a"},
		"q3": models.ShortAnswerText{Text: "russia"},
	})

	first := engine.Score(assessment, ans)
	second := engine.Score(assessment, ans)

	assert.Equal(t, first, second)
}

func TestScore_CorrectingAnAnswerNeverLowersTheScore(t *testing.T) {
	engine := NewEngine()
	assessment := threeQuestionAssessment(t, 50)

	// Flip each question from wrong to right in turn while holding the
	// others fixed. The score must strictly increase every time since all
	// three questions carry positive points.
	wrong := map[string]interface{}{
		"q1": models.SingleChoiceAnswer{SelectedOption: "b"},
		"q2": models.TrueFalseAnswer{Answer: false},
		"q3": models.ShortAnswerText{Text: "Canada"},
	}
	right := map[string]interface{}{
		"q1": models.SingleChoiceAnswer{SelectedOption: "a"},
		"q2": models.TrueFalseAnswer{Answer: true},
		"q3": models.ShortAnswerText{Text: "Russia"},
	}

	for _, questionID := range []string{"q1", "q2", "q3"} {
		before := map[string]interface{}{}
		for id, v := range wrong {
			before[id] = v
		}
		after := map[string]interface{}{}
		for id, v := range wrong {
			after[id] = v
		}
		after[questionID] = right[questionID]

		base := engine.Score(assessment, answers(t, before))
		corrected := engine.Score(assessment, answers(t, after))

		assert.Greater(t, corrected.Score, base.Score, "correcting %s", questionID)
		assert.Greater(t, corrected.Percentage, base.Percentage, "correcting %s", questionID)
		assert.Equal(t, base.CorrectCount+1, corrected.CorrectCount, "correcting %s", questionID)
	}
}

func TestScore_PassingBoundary(t *testing.T) {
	engine := NewEngine()

	// 80% exactly meets an 80% passing threshold.
	assessment := threeQuestionAssessment(t, 80)
	result := engine.Score(assessment, answers(t, map[string]interface{}{
		"q1": models.SingleChoiceAnswer{SelectedOption: "a"},
		"q2": models.TrueFalseAnswer{Answer: true},
	}))
	assert.True(t, result.Passed)

	// Just above the achieved percentage fails.
	assessment = threeQuestionAssessment(t, 81)
	result = engine.Score(assessment, answers(t, map[string]interface{}{
		"q1": models.SingleChoiceAnswer{SelectedOption: "a"},
		"q2": models.TrueFalseAnswer{Answer: true},
	}))
	assert.False(t, result.Passed)
}

func TestTierForPercentage(t *testing.T) {
	tests := []struct {
		percentage float64
		want       models.FeedbackTier
	}{
		{100, models.TierExcellent},
		{90, models.TierExcellent},
		{89.99, models.TierGreat},
		{80, models.TierGreat},
		{79.99, models.TierGood},
		{70, models.TierGood},
		{69.99, models.TierFair},
		{60, models.TierFair},
		{59.99, models.TierNeedsReview},
		{0, models.TierNeedsReview},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TierForPercentage(tt.percentage), "percentage %v", tt.percentage)
	}
}
