package services

import (
	"context"
	"testing"

	"github.com/SAP-F-2025/session-engine/internal/models"
	"github.com/SAP-F-2025/session-engine/internal/repositories"
	"github.com/SAP-F-2025/session-engine/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validCreateRequest(t *testing.T) *CreateAssessmentRequest {
	t.Helper()
	return &CreateAssessmentRequest{
		Title:             "Midterm",
		PassingPercentage: 60,
		Questions: []models.Question{
			{
				Type: models.SingleChoice, Text: "Pick one", Points: 10,
				Content: mustJSON(t, models.SingleChoiceContent{
					Options:       []models.Option{{ID: "a", Text: "Yes"}, {ID: "b", Text: "No"}},
					CorrectOption: "a",
				}),
			},
			{
				Type: models.TrueFalse, Text: "True or false", Points: 5,
				Content: mustJSON(t, models.TrueFalseContent{CorrectAnswer: false}),
			},
		},
	}
}

func TestAssessmentService_Create(t *testing.T) {
	repo := newMockRepository()
	service := NewAssessmentService(repo, testLogger(), validator.New())
	ctx := context.Background()

	repo.assessment.On("Create", ctx, mock.AnythingOfType("*models.Assessment")).Return(nil)

	assessment, err := service.Create(ctx, validCreateRequest(t))
	require.NoError(t, err)

	// IDs are generated and the question set carries through intact.
	assert.NotEmpty(t, assessment.ID)
	require.Len(t, assessment.Questions, 2)
	for _, q := range assessment.Questions {
		assert.NotEmpty(t, q.ID)
	}
	assert.Equal(t, 15, assessment.TotalPoints())
}

func TestAssessmentService_CreateRejectsBadContent(t *testing.T) {
	repo := newMockRepository()
	service := NewAssessmentService(repo, testLogger(), validator.New())
	ctx := context.Background()

	req := validCreateRequest(t)
	// Correct option points at a nonexistent option id.
	req.Questions[0].Content = mustJSON(t, models.SingleChoiceContent{
		Options:       []models.Option{{ID: "a", Text: "Yes"}, {ID: "b", Text: "No"}},
		CorrectOption: "z",
	})

	_, err := service.Create(ctx, req)
	assert.ErrorIs(t, err, ErrValidationFailed)
	repo.assessment.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAssessmentService_CreateDuplicateID(t *testing.T) {
	repo := newMockRepository()
	service := NewAssessmentService(repo, testLogger(), validator.New())
	ctx := context.Background()

	repo.assessment.On("Create", ctx, mock.AnythingOfType("*models.Assessment")).
		Return(repositories.ErrDuplicateKey)

	_, err := service.Create(ctx, validCreateRequest(t))
	assert.ErrorIs(t, err, ErrAssessmentDuplicateID)
	assert.True(t, IsConflict(err))
}

func TestAssessmentService_CreateRejectsMissingTitle(t *testing.T) {
	repo := newMockRepository()
	service := NewAssessmentService(repo, testLogger(), validator.New())

	req := validCreateRequest(t)
	req.Title = ""

	_, err := service.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrValidationFailed)
}
