package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/session-engine/internal/models"
	"github.com/SAP-F-2025/session-engine/internal/repositories"
	"github.com/SAP-F-2025/session-engine/internal/validator"
	"github.com/google/uuid"
)

type CreateAssessmentRequest struct {
	ID                string            `json:"id" validate:"omitempty,uuid"`
	Title             string            `json:"title" validate:"required,min=1,max=200"`
	Description       *string           `json:"description" validate:"omitempty,max=1000"`
	TimeLimitSeconds  *int              `json:"time_limit_seconds" validate:"omitempty,min=30,max=14400"`
	PassingPercentage float64           `json:"passing_percentage" validate:"min=0,max=100"`
	Questions         []models.Question `json:"questions" validate:"required,min=1,dive"`
}

// AssessmentService manages assessment definitions for the hosting API.
type AssessmentService interface {
	Create(ctx context.Context, req *CreateAssessmentRequest) (*models.Assessment, error)
	GetByID(ctx context.Context, id string) (*models.Assessment, error)
	List(ctx context.Context, filters repositories.AssessmentFilters) ([]*models.Assessment, int64, error)
}

type assessmentService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewAssessmentService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) AssessmentService {
	return &assessmentService{
		repo:      repo,
		logger:    logger,
		validator: v,
	}
}

func (s *assessmentService) Create(ctx context.Context, req *CreateAssessmentRequest) (*models.Assessment, error) {
	// IDs are assigned before validation; the question tag set requires them.
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	for i := range req.Questions {
		if req.Questions[i].ID == "" {
			req.Questions[i].ID = uuid.NewString()
		}
	}

	now := time.Now()
	assessment := &models.Assessment{
		ID:                req.ID,
		Title:             req.Title,
		Description:       req.Description,
		TimeLimitSeconds:  req.TimeLimitSeconds,
		PassingPercentage: req.PassingPercentage,
		CreatedAt:         now,
		UpdatedAt:         now,
		Questions:         req.Questions,
	}

	// Struct tags and question definitions are checked up front so no
	// session can ever be created over a malformed assessment.
	if err := s.validator.Validate(assessment); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	if err := s.repo.Assessment().Create(ctx, assessment); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrAssessmentDuplicateID
		}
		return nil, fmt.Errorf("failed to create assessment: %w", err)
	}

	s.logger.Info("Assessment created",
		"assessment_id", assessment.ID,
		"questions", len(assessment.Questions),
		"total_points", assessment.TotalPoints())

	return assessment, nil
}

func (s *assessmentService) GetByID(ctx context.Context, id string) (*models.Assessment, error) {
	assessment, err := s.repo.Assessment().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}
	return assessment, nil
}

func (s *assessmentService) List(ctx context.Context, filters repositories.AssessmentFilters) ([]*models.Assessment, int64, error) {
	assessments, total, err := s.repo.Assessment().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list assessments: %w", err)
	}
	return assessments, total, nil
}
