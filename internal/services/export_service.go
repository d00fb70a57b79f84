package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/session-engine/internal/repositories"
	"github.com/xuri/excelize/v2"
)

// ExportService produces downloadable reports over stored results.
type ExportService interface {
	ExportResultsToExcel(ctx context.Context, assessmentID string, filters repositories.ResultFilters) ([]byte, error)
}

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
	}
}

func (s *exportService) ExportResultsToExcel(ctx context.Context, assessmentID string, filters repositories.ResultFilters) ([]byte, error) {
	if _, err := s.repo.Assessment().GetByID(ctx, assessmentID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}

	results, total, err := s.repo.Result().GetByAssessment(ctx, assessmentID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get results: %w", err)
	}

	f := excelize.NewFile()
	sheetName := "Results"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{
		"Session ID", "Student ID", "Score", "Max Score", "Percentage",
		"Correct", "Total Questions", "Feedback Tier", "Passed",
		"Time Spent (s)", "Completed At",
	}

	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, result := range results {
		passed := "Fail"
		if result.Passed {
			passed = "Pass"
		}

		row := []interface{}{
			result.SessionID,
			result.StudentID,
			result.Score,
			result.MaxScore,
			result.Percentage,
			result.CorrectCount,
			result.TotalQuestions,
			string(result.FeedbackTier),
			passed,
			result.TimeSpentSeconds,
			result.CompletedAt.Format("2006-01-02 15:04:05"),
		}

		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Results exported",
		"assessment_id", assessmentID,
		"rows", len(results),
		"total", total)

	return buf.Bytes(), nil
}
