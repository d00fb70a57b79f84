package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/SAP-F-2025/session-engine/internal/models"
	"github.com/SAP-F-2025/session-engine/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportResultsToExcel(t *testing.T) {
	repo := newMockRepository()
	service := NewExportService(repo, testLogger())
	ctx := context.Background()

	completed := time.Date(2026, 8, 1, 10, 30, 0, 0, time.UTC)
	results := []*models.Result{
		{
			ID: "r1", SessionID: "s1", AssessmentID: "a1", StudentID: "student-1",
			Score: 20, MaxScore: 25, Percentage: 80, CorrectCount: 2, TotalQuestions: 3,
			FeedbackTier: models.TierGreat, Passed: true, TimeSpentSeconds: 120,
			CompletedAt: completed,
		},
		{
			ID: "r2", SessionID: "s2", AssessmentID: "a1", StudentID: "student-2",
			Score: 5, MaxScore: 25, Percentage: 20, CorrectCount: 1, TotalQuestions: 3,
			FeedbackTier: models.TierNeedsReview, Passed: false, TimeSpentSeconds: 300,
			CompletedAt: completed,
		},
	}

	repo.assessment.On("GetByID", ctx, "a1").Return(&models.Assessment{ID: "a1", Title: "Quiz"}, nil)
	repo.result.On("GetByAssessment", ctx, "a1", repositories.ResultFilters{}).
		Return(results, int64(2), nil)

	data, err := service.ExportResultsToExcel(ctx, "a1", repositories.ResultFilters{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Results")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Session ID", rows[0][0])
	assert.Equal(t, "Passed", rows[0][8])

	assert.Equal(t, "s1", rows[1][0])
	assert.Equal(t, "student-1", rows[1][1])
	assert.Equal(t, "20", rows[1][2])
	assert.Equal(t, "great", rows[1][7])
	assert.Equal(t, "Pass", rows[1][8])

	assert.Equal(t, "s2", rows[2][0])
	assert.Equal(t, "Fail", rows[2][8])
}

func TestExportResultsToExcel_UnknownAssessment(t *testing.T) {
	repo := newMockRepository()
	service := NewExportService(repo, testLogger())
	ctx := context.Background()

	repo.assessment.On("GetByID", ctx, "missing").Return(nil, repositories.ErrNotFound)

	_, err := service.ExportResultsToExcel(ctx, "missing", repositories.ResultFilters{})
	assert.ErrorIs(t, err, ErrAssessmentNotFound)
}
