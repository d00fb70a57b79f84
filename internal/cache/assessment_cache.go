package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/session-engine/internal/models"
	"github.com/SAP-F-2025/session-engine/internal/repositories"
)

// cachedAssessmentRepository decorates an AssessmentRepository with
// cache-aside reads. Definitions are immutable once published, so a plain
// TTL is enough; writes invalidate defensively anyway.
type cachedAssessmentRepository struct {
	inner  repositories.AssessmentRepository
	cache  CacheService
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedAssessmentRepository(inner repositories.AssessmentRepository, cache CacheService, ttl time.Duration, logger *slog.Logger) repositories.AssessmentRepository {
	return &cachedAssessmentRepository{
		inner:  inner,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// WrapRepository returns a Repository aggregate whose assessment reads go
// through the cache while everything else hits the inner repository.
func WrapRepository(inner repositories.Repository, cache CacheService, ttl time.Duration, logger *slog.Logger) repositories.Repository {
	return &cachedRepository{
		inner:      inner,
		assessment: NewCachedAssessmentRepository(inner.Assessment(), cache, ttl, logger),
	}
}

type cachedRepository struct {
	inner      repositories.Repository
	assessment repositories.AssessmentRepository
}

func (r *cachedRepository) Assessment() repositories.AssessmentRepository {
	return r.assessment
}

func (r *cachedRepository) Result() repositories.ResultRepository {
	return r.inner.Result()
}

func assessmentKey(id string) string {
	return fmt.Sprintf("assessment:%s", id)
}

func (r *cachedAssessmentRepository) GetByID(ctx context.Context, id string) (*models.Assessment, error) {
	var cached models.Assessment
	err := r.cache.Get(ctx, assessmentKey(id), &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		// Degrade to the inner repository on cache trouble.
		r.logger.Warn("assessment cache read failed", "assessment_id", id, "error", err)
	}

	assessment, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, assessmentKey(id), assessment, r.ttl); err != nil {
		r.logger.Warn("assessment cache write failed", "assessment_id", id, "error", err)
	}
	return assessment, nil
}

func (r *cachedAssessmentRepository) Create(ctx context.Context, assessment *models.Assessment) error {
	if err := r.inner.Create(ctx, assessment); err != nil {
		return err
	}
	if err := r.cache.Delete(ctx, assessmentKey(assessment.ID)); err != nil {
		r.logger.Warn("assessment cache invalidation failed", "assessment_id", assessment.ID, "error", err)
	}
	return nil
}

func (r *cachedAssessmentRepository) List(ctx context.Context, filters repositories.AssessmentFilters) ([]*models.Assessment, int64, error) {
	return r.inner.List(ctx, filters)
}
