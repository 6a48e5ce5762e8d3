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

type priceRepository struct {
	db *gorm.DB
}

func NewPriceRepository(db *gorm.DB) interfaces.PriceRepository {
	return &priceRepository{
		db: db,
	}
}

func (r *priceRepository) Create(ctx context.Context, price *models.Price) (*models.Price, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "priceRepository.Create")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	if price == nil {
		return nil, ErrInvalidInput
	}

	if result := r.db.WithContext(ctx).Create(price); result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return nil, result.Error
	}
	return price, nil
}

func (r *priceRepository) GetByID(ctx context.Context, id string) (*models.Price, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "priceRepository.GetByID")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagEntity(span, id)

	var price models.Price
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&price).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPriceNotFound
		}
		tracing.TraceErr(span, err)
		return nil, err
	}
	return &price, nil
}

func (r *priceRepository) ListByIntention(ctx context.Context, intentionID string) ([]*models.Price, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "priceRepository.ListByIntention")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	var prices []*models.Price
	if err := r.db.WithContext(ctx).
		Where("intention_id = ? AND is_active = ?", intentionID, true).
		Order("created_at ASC").
		Find(&prices).Error; err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	return prices, nil
}

func (r *priceRepository) IncrementUsage(ctx context.Context, id string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "priceRepository.IncrementUsage")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagEntity(span, id)

	result := r.db.WithContext(ctx).
		Model(&models.Price{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"usage_count": gorm.Expr("usage_count + 1"),
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPriceNotFound
	}
	return nil
}
