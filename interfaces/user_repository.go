package interfaces

import (
	"context"

	"github.com/intentstack/intentstack/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ListActive(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	// UpdateStatistics atomically bumps the fetch/processing counters
	UpdateStatistics(ctx context.Context, id string, emailProcessed, intentionMatched bool) error
	RecordError(ctx context.Context, id string, message string) error
}
