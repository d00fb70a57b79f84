package repositories

import (
	"context"
	"errors"

	"github.com/SAP-F-2025/session-engine/internal/models"
)

// ErrNotFound is the canonical not-found error; storage implementations
// translate their driver errors into it.
var ErrNotFound = errors.New("repositories: not found")

// ErrDuplicateKey is the canonical unique-constraint error; storage
// implementations translate their driver errors into it.
var ErrDuplicateKey = errors.New("repositories: duplicate key")

// IsNotFoundError checks if error represents a "not found" condition
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if error represents a unique-constraint violation
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicateKey)
}

// AssessmentRepository supplies assessment definitions. A fetch failure is
// fatal to session creation; no partial session is ever produced from one.
type AssessmentRepository interface {
	Create(ctx context.Context, assessment *models.Assessment) error
	GetByID(ctx context.Context, id string) (*models.Assessment, error)
	List(ctx context.Context, filters AssessmentFilters) ([]*models.Assessment, int64, error)
}

// ResultRepository persists computed results. Save is idempotent per
// session: re-saving an already persisted result is a no-op.
type ResultRepository interface {
	Save(ctx context.Context, result *models.Result) error
	GetBySession(ctx context.Context, sessionID string) (*models.Result, error)
	GetByAssessment(ctx context.Context, assessmentID string, filters ResultFilters) ([]*models.Result, int64, error)
}

// Repository aggregates the storage interfaces the service layer needs.
type Repository interface {
	Assessment() AssessmentRepository
	Result() ResultRepository
}

// ===== SHARED FILTER STRUCTS =====

type AssessmentFilters struct {
	Title  *string `json:"title"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}

type ResultFilters struct {
	StudentID *string `json:"student_id"`
	Passed    *bool   `json:"passed"`
	Limit     int     `json:"limit"`
	Offset    int     `json:"offset"`
}
