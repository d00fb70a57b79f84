package postgres

import (
	"github.com/SAP-F-2025/session-engine/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	assessment repositories.AssessmentRepository
	result     repositories.ResultRepository
}

// NewRepository wires the postgres-backed implementations together.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		assessment: NewAssessmentRepository(db),
		result:     NewResultRepository(db),
	}
}

func (r *repository) Assessment() repositories.AssessmentRepository {
	return r.assessment
}

func (r *repository) Result() repositories.ResultRepository {
	return r.result
}
