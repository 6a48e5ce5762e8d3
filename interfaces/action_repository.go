package interfaces

import (
	"context"

	"github.com/intentstack/intentstack/internal/models"
)

type ActionRepository interface {
	Create(ctx context.Context, action *models.Action) (*models.Action, error)
	GetByID(ctx context.Context, id string) (*models.Action, error)
	// GetByIDs preserves the order of the requested ids
	GetByIDs(ctx context.Context, ids []string) ([]*models.Action, error)
	// RecordExecution updates the action's success/failure counters,
	// running average execution time and last error
	RecordExecution(ctx context.Context, id string, success bool, durationMs int64, errMessage string) error
}
