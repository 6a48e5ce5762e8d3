package repository

import (
	"context"
	"errors"
	"time"

	"github.com/opentracing/opentracing-go"
	"gorm.io/gorm"

	"github.com/intentstack/intentstack/interfaces"
	"github.com/intentstack/intentstack/internal/models"
	"github.com/intentstack/intentstack/internal/tracing"
	"github.com/intentstack/intentstack/internal/utils"
)

type actionRepository struct {
	db *gorm.DB
}

func NewActionRepository(db *gorm.DB) interfaces.ActionRepository {
	return &actionRepository{
		db: db,
	}
}

func (r *actionRepository) Create(ctx context.Context, action *models.Action) (*models.Action, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "actionRepository.Create")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	if action == nil {
		return nil, ErrInvalidInput
	}

	if result := r.db.WithContext(ctx).Create(action); result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return nil, result.Error
	}
	return action, nil
}

func (r *actionRepository) GetByID(ctx context.Context, id string) (*models.Action, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "actionRepository.GetByID")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagEntity(span, id)

	var action models.Action
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&action).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActionNotFound
		}
		tracing.TraceErr(span, err)
		return nil, err
	}
	return &action, nil
}

func (r *actionRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.Action, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "actionRepository.GetByIDs")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	if len(ids) == 0 {
		return []*models.Action{}, nil
	}

	var actions []*models.Action
	if err := r.db.WithContext(ctx).
		Where("id IN ? AND is_active = ?", ids, true).
		Find(&actions).Error; err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	// Reorder to the requested id order; the intention's list encodes
	// execution order
	byID := make(map[string]*models.Action, len(actions))
	for _, a := range actions {
		byID[a.ID] = a
	}
	ordered := make([]*models.Action, 0, len(ids))
	for _, id := range ids {
		if a, ok := byID[id]; ok {
			ordered = append(ordered, a)
		}
	}
	return ordered, nil
}

func (r *actionRepository) RecordExecution(ctx context.Context, id string, success bool, durationMs int64, errMessage string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "actionRepository.RecordExecution")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagEntity(span, id)

	updates := map[string]interface{}{
		// Running mean over all executions, success or not
		"average_execution_time": gorm.Expr(
			"(average_execution_time * (success_count + failure_count) + ?) / (success_count + failure_count + 1)",
			durationMs,
		),
		"last_executed_at": utils.Now(),
		"updated_at":       time.Now(),
	}
	if success {
		updates["success_count"] = gorm.Expr("success_count + 1")
	} else {
		updates["failure_count"] = gorm.Expr("failure_count + 1")
		updates["last_error"] = errMessage
	}

	result := r.db.WithContext(ctx).
		Model(&models.Action{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrActionNotFound
	}
	return nil
}
