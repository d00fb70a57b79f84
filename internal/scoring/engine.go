package scoring

import (
	"fmt"

	"github.com/SAP-F-2025/session-engine/internal/models"
	"github.com/SAP-F-2025/session-engine/internal/validator"
)

// Engine computes results from an assessment definition and a final answer
// map. Score has no side effects and is safe to call repeatedly with the
// same inputs: the scoring fields it produces are always identical.
type Engine struct {
	questions *validator.QuestionValidator
}

func NewEngine() *Engine {
	return &Engine{questions: validator.NewQuestionValidator()}
}

// Score evaluates every question against the answer map. Unanswered
// questions are incorrect and contribute 0 points. Session metadata
// (session id, time spent, completion time) is filled in by the caller.
func (e *Engine) Score(assessment *models.Assessment, answers map[string]models.Answer) *models.Result {
	result := &models.Result{
		AssessmentID:           assessment.ID,
		MaxScore:               assessment.TotalPoints(),
		TotalQuestions:         len(assessment.Questions),
		PerQuestionCorrectness: make(map[string]bool, len(assessment.Questions)),
	}

	for i := range assessment.Questions {
		question := &assessment.Questions[i]

		var answer *models.Answer
		if a, ok := answers[question.ID]; ok {
			answer = &a
		}

		correct := e.questions.IsCorrect(question, answer)
		result.PerQuestionCorrectness[question.ID] = correct
		if correct {
			result.Score += question.Points
			result.CorrectCount++
		}
	}

	if result.MaxScore > 0 {
		result.Percentage = clampPercentage(float64(result.Score) / float64(result.MaxScore) * 100)
	}

	result.FeedbackTier = TierForPercentage(result.Percentage)
	result.Feedback = feedbackText(result.FeedbackTier, result.CorrectCount, result.TotalQuestions)
	result.Passed = result.MaxScore > 0 && result.Percentage >= assessment.PassingPercentage

	return result
}

// TierForPercentage maps a percentage score onto the fixed feedback bands.
func TierForPercentage(percentage float64) models.FeedbackTier {
	switch {
	case percentage >= 90:
		return models.TierExcellent
	case percentage >= 80:
		return models.TierGreat
	case percentage >= 70:
		return models.TierGood
	case percentage >= 60:
		return models.TierFair
	default:
		return models.TierNeedsReview
	}
}

var tierMessages = map[models.FeedbackTier]string{
	models.TierExcellent:   "Outstanding work, you have mastered this material.",
	models.TierGreat:       "Great job, you have a strong grasp of this material.",
	models.TierGood:        "Good effort, review the questions you missed.",
	models.TierFair:        "A fair result, spend some more time on this topic.",
	models.TierNeedsReview: "This topic needs more review before moving on.",
}

func feedbackText(tier models.FeedbackTier, correct, total int) string {
	return fmt.Sprintf("You scored %d out of %d questions correctly. %s", correct, total, tierMessages[tier])
}

func clampPercentage(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
