package service

import (
	"context"
	"time"
	"unimatch/research-app/internal/apperror"
	"unimatch/research-app/internal/domain"
	"unimatch/research-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AnalyticsService computes on-demand application aggregates. Read-only.
type AnalyticsService interface {
	// ComputeAnalytics aggregates application counts, scoped to one project
	// when projectID is non-nil, global otherwise.
	ComputeAnalytics(ctx context.Context, projectID *primitive.ObjectID) (*domain.AnalyticsSnapshot, error)
}

type analyticsService struct {
	applicationRepo repository.ApplicationRepository
}

// NewAnalyticsService creates a new instance of analyticsService.
func NewAnalyticsService(applicationRepo repository.ApplicationRepository) AnalyticsService {
	return &analyticsService{applicationRepo: applicationRepo}
}

func (s *analyticsService) ComputeAnalytics(ctx context.Context, projectID *primitive.ObjectID) (*domain.AnalyticsSnapshot, error) {
	counts, err := s.applicationRepo.CountByStatus(ctx, projectID)
	if err != nil {
		return nil, apperror.Infrastructure("failed to aggregate applications", err)
	}

	pending := counts[domain.ApplicationStatusPending]
	closed := counts[domain.ApplicationStatusClosed]
	total := pending + closed

	// closeRate defined as 0 when there are no applications
	var closeRate float64
	if total > 0 {
		closeRate = float64(closed) / float64(total) * 100
	}

	return &domain.AnalyticsSnapshot{
		Total:       total,
		Pending:     pending,
		Closed:      closed,
		CloseRate:   closeRate,
		LastUpdated: time.Now().UTC(),
	}, nil
}
