package interfaces

import (
	"context"

	"github.com/intentstack/intentstack/internal/enum"
)

// ActionExecutor runs one action with its templates already resolved
type ActionExecutor interface {
	Execute(ctx context.Context, actionType enum.ActionType, resolvedConfig map[string]interface{}) (interface{}, error)
}
