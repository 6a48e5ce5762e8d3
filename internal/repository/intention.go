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
)

type intentionRepository struct {
	db *gorm.DB
}

func NewIntentionRepository(db *gorm.DB) interfaces.IntentionRepository {
	return &intentionRepository{
		db: db,
	}
}

func (r *intentionRepository) Create(ctx context.Context, intention *models.Intention) (*models.Intention, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "intentionRepository.Create")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	if intention == nil {
		return nil, ErrInvalidInput
	}

	if result := r.db.WithContext(ctx).Create(intention); result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return nil, result.Error
	}
	return intention, nil
}

func (r *intentionRepository) GetByID(ctx context.Context, id string) (*models.Intention, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "intentionRepository.GetByID")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagEntity(span, id)

	var intention models.Intention
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&intention).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIntentionNotFound
		}
		tracing.TraceErr(span, err)
		return nil, err
	}
	return &intention, nil
}

func (r *intentionRepository) ListActive(ctx context.Context) ([]*models.Intention, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "intentionRepository.ListActive")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	// Catalog order doubles as match priority, so keep it stable
	var intentions []*models.Intention
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&intentions).Error; err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	return intentions, nil
}

func (r *intentionRepository) Update(ctx context.Context, intention *models.Intention) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "intentionRepository.Update")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	if intention == nil || intention.ID == "" {
		return ErrInvalidInput
	}

	intention.UpdatedAt = time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.Intention{}).
		Where("id = ?", intention.ID).
		Updates(map[string]interface{}{
			"name":        intention.Name,
			"description": intention.Description,
			"keywords":    intention.Keywords,
			"ai_config":   intention.AIConfig,
			"action_ids":  intention.ActionIDs,
			"is_active":   intention.IsActive,
			"updated_at":  intention.UpdatedAt,
		})
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrIntentionNotFound
	}
	return nil
}

func (r *intentionRepository) UpdateStatistics(ctx context.Context, id string, confidence float64) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "intentionRepository.UpdateStatistics")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagEntity(span, id)

	// Running mean over exactly match_count samples, computed in SQL so
	// concurrent updates cannot interleave a stale read
	result := r.db.WithContext(ctx).
		Model(&models.Intention{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"average_confidence": gorm.Expr("(average_confidence * match_count + ?) / (match_count + 1)", confidence),
			"match_count":        gorm.Expr("match_count + 1"),
			"updated_at":         time.Now(),
		})
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrIntentionNotFound
	}
	return nil
}
