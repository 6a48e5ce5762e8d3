package interfaces

import (
	"context"

	"github.com/intentstack/intentstack/internal/models"
)

type IntentionRepository interface {
	Create(ctx context.Context, intention *models.Intention) (*models.Intention, error)
	GetByID(ctx context.Context, id string) (*models.Intention, error)
	ListActive(ctx context.Context) ([]*models.Intention, error)
	Update(ctx context.Context, intention *models.Intention) error
	// UpdateStatistics folds one confidence sample into the running
	// mean and increments the match counter, atomically
	UpdateStatistics(ctx context.Context, id string, confidence float64) error
}
