// Package repository provides persistence for emitted decision records.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/prop-edge/internal/models"
)

// RecommendationRepository stores and retrieves emitted decision
// records. The engine itself never touches storage; the service layer
// writes records after evaluation for later settlement and CLV review.
type RecommendationRepository interface {
	Create(ctx context.Context, rec *models.Recommendation) error
	CreateBatch(ctx context.Context, recs []*models.Recommendation) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Recommendation, error)
	GetByEvent(ctx context.Context, eventID string) ([]*models.Recommendation, error)
	GetByTier(ctx context.Context, tier models.Tier, since time.Time) ([]*models.Recommendation, error)
}
