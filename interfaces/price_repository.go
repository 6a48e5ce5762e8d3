package interfaces

import (
	"context"

	"github.com/intentstack/intentstack/internal/models"
)

type PriceRepository interface {
	Create(ctx context.Context, price *models.Price) (*models.Price, error)
	GetByID(ctx context.Context, id string) (*models.Price, error)
	ListByIntention(ctx context.Context, intentionID string) ([]*models.Price, error)
	IncrementUsage(ctx context.Context, id string) error
}
