package interfaces

import (
	"context"

	"github.com/intentstack/intentstack/internal/enum"
	"github.com/intentstack/intentstack/internal/models"
)

// StatusPatch carries the workflow fields merged into a processed email
// together with its status transition. Nil fields are left untouched.
type StatusPatch struct {
	AIResponse         models.JSONMap
	ExtractedData      models.JSONMap
	MatchedIntentionID *string
	AppliedPriceID     *string
	ExecutedActions    models.JSONArray
	Error              *string
	Attempts           *int
	ProcessingDuration *int64
}

// ProcessedEmailRepository is the durable record of each email's
// processing status and history
type ProcessedEmailRepository interface {
	// Create persists a new work item and reports whether a row was
	// inserted; an existing (user, messageId) pair returns the existing
	// record with created false instead of a duplicate
	Create(ctx context.Context, email *models.ProcessedEmail) (*models.ProcessedEmail, bool, error)
	GetByID(ctx context.Context, id string) (*models.ProcessedEmail, error)
	ListPending(ctx context.Context) ([]*models.ProcessedEmail, error)
	ListByUser(ctx context.Context, userID string, status enum.ProcessingStatus, limit, offset int) ([]*models.ProcessedEmail, int64, error)
	// UpdateStatus atomically sets the status and merges the patch;
	// terminal statuses also stamp processed_at
	UpdateStatus(ctx context.Context, id string, status enum.ProcessingStatus, patch *StatusPatch) (*models.ProcessedEmail, error)
}
