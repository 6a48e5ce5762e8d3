package interfaces

import (
	"context"

	"github.com/intentstack/intentstack/dto"
	"github.com/intentstack/intentstack/internal/enum"
)

// EventPublisher pushes pipeline events onto the message broker
type EventPublisher interface {
	PublishEmailProcessed(ctx context.Context, event dto.EmailProcessed) error
	PublishNotification(ctx context.Context, entityID string, entityType enum.EntityType, notification dto.Notification) error
	Close() error
}
