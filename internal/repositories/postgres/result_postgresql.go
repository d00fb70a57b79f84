package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/session-engine/internal/models"
	"github.com/SAP-F-2025/session-engine/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type resultRepository struct {
	db *gorm.DB
}

func NewResultRepository(db *gorm.DB) repositories.ResultRepository {
	return &resultRepository{db: db}
}

// Save persists a result. The unique index on session_id plus DoNothing
// makes retried saves of the same session idempotent.
func (r *resultRepository) Save(ctx context.Context, result *models.Result) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}},
			DoNothing: true,
		}).
		Create(result).Error
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}
	return nil
}

func (r *resultRepository) GetBySession(ctx context.Context, sessionID string) (*models.Result, error) {
	var result models.Result

	err := r.db.WithContext(ctx).First(&result, "session_id = ?", sessionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	return &result, nil
}

func (r *resultRepository) GetByAssessment(ctx context.Context, assessmentID string, filters repositories.ResultFilters) ([]*models.Result, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Result{}).Where("assessment_id = ?", assessmentID)

	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}
	if filters.Passed != nil {
		query = query.Where("passed = ?", *filters.Passed)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count results: %w", err)
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var results []*models.Result
	if err := query.Order("completed_at DESC").Find(&results).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list results: %w", err)
	}

	return results, total, nil
}
