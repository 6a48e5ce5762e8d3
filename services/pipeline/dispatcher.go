package pipeline

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/intentstack/intentstack/dto"
	"github.com/intentstack/intentstack/interfaces"
	"github.com/intentstack/intentstack/internal/logger"
	"github.com/intentstack/intentstack/internal/tracing"
)

// Dispatcher runs an intention's actions in order. A failing action is
// recorded and never stops the ones after it.
type Dispatcher struct {
	actions  interfaces.ActionRepository
	executor interfaces.ActionExecutor
	log      logger.Logger
}

func NewDispatcher(actions interfaces.ActionRepository, executor interfaces.ActionExecutor, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		actions:  actions,
		executor: executor,
		log:      log,
	}
}

// DispatchActions resolves each action's config against the execution
// context and executes them sequentially. The returned outcomes mirror
// the action order; an unresolvable action id is reported as an error
// outcome for that id. Only a failure to load the action catalog itself
// returns an error.
func (d *Dispatcher) DispatchActions(ctx context.Context, actionIDs []string, execCtx *ExecutionContext) ([]dto.ActionOutcome, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "Dispatcher.DispatchActions")
	defer span.Finish()
	tracing.TagComponentPipeline(span)
	span.LogKV("actionIds", actionIDs)

	if len(actionIDs) == 0 {
		return []dto.ActionOutcome{}, nil
	}

	actions, err := d.actions.GetByIDs(ctx, actionIDs)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "failed to load actions")
	}

	byID := make(map[string]int, len(actions))
	for i, action := range actions {
		byID[action.ID] = i
	}

	templateContext := execCtx.ToMap()
	outcomes := make([]dto.ActionOutcome, 0, len(actionIDs))

	for _, id := range actionIDs {
		idx, ok := byID[id]
		if !ok {
			// Ids the repository could not find still get an outcome so
			// the audit trail stays aligned with the intention's list
			outcomes = append(outcomes, dto.ActionOutcome{
				ActionID: id,
				Status:   dto.ActionOutcomeError,
				Error:    "action not found or inactive",
			})
			continue
		}
		action := actions[idx]

		start := time.Now()
		resolvedConfig := ResolveConfig(action.Config, templateContext)

		result, execErr := d.executor.Execute(ctx, action.Type, resolvedConfig)
		durationMs := time.Since(start).Milliseconds()

		outcome := dto.ActionOutcome{ActionID: action.ID}
		errMessage := ""
		if execErr != nil {
			outcome.Status = dto.ActionOutcomeError
			outcome.Error = execErr.Error()
			errMessage = execErr.Error()
			d.log.Warnf("Action %s (%s) failed: %v", action.ID, action.Type, execErr)
		} else {
			outcome.Status = dto.ActionOutcomeSuccess
			outcome.Result = result
		}
		outcomes = append(outcomes, outcome)

		if err := d.actions.RecordExecution(ctx, action.ID, execErr == nil, durationMs, errMessage); err != nil {
			tracing.TraceErr(span, err)
			d.log.Errorf("Failed to record execution for action %s: %v", action.ID, err)
		}
	}

	return outcomes, nil
}
