package repository

import (
	"context"
	"errors"
	"time"

	"github.com/opentracing/opentracing-go"
	"gorm.io/gorm"

	"github.com/intentstack/intentstack/interfaces"
	"github.com/intentstack/intentstack/internal/enum"
	"github.com/intentstack/intentstack/internal/models"
	"github.com/intentstack/intentstack/internal/tracing"
	"github.com/intentstack/intentstack/internal/utils"
)

type processedEmailRepository struct {
	db *gorm.DB
}

func NewProcessedEmailRepository(db *gorm.DB) interfaces.ProcessedEmailRepository {
	return &processedEmailRepository{
		db: db,
	}
}

func (r *processedEmailRepository) Create(ctx context.Context, email *models.ProcessedEmail) (*models.ProcessedEmail, bool, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "processedEmailRepository.Create")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	if email == nil {
		return nil, false, ErrInvalidInput
	}

	if email.MessageID != "" {
		email.MessageID = utils.NormalizeMessageID(email.MessageID)
	}

	// Check if the message was already ingested for this user
	existing := &models.ProcessedEmail{}
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND message_id = ?", email.UserID, email.MessageID).
		First(existing).Error

	if err == nil {
		span.SetTag("duplicate", true)
		return existing, false, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		tracing.TraceErr(span, err)
		return nil, false, err
	}

	result := r.db.WithContext(ctx).Create(email)
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return nil, false, result.Error
	}

	return email, true, nil
}

func (r *processedEmailRepository) GetByID(ctx context.Context, id string) (*models.ProcessedEmail, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "processedEmailRepository.GetByID")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagEntity(span, id)

	var email models.ProcessedEmail
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmailNotFound
		}
		tracing.TraceErr(span, err)
		return nil, err
	}
	return &email, nil
}

func (r *processedEmailRepository) ListPending(ctx context.Context) ([]*models.ProcessedEmail, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "processedEmailRepository.ListPending")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	var emails []*models.ProcessedEmail
	if err := r.db.WithContext(ctx).
		Where("status = ? AND is_active = ?", enum.ProcessingStatusPending, true).
		Order("received_at ASC").
		Find(&emails).Error; err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	return emails, nil
}

func (r *processedEmailRepository) ListByUser(ctx context.Context, userID string, status enum.ProcessingStatus, limit, offset int) ([]*models.ProcessedEmail, int64, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "processedEmailRepository.ListByUser")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	query := r.db.WithContext(ctx).Model(&models.ProcessedEmail{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		tracing.TraceErr(span, err)
		return nil, 0, err
	}

	var emails []*models.ProcessedEmail
	if err := query.
		Order("received_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&emails).Error; err != nil {
		tracing.TraceErr(span, err)
		return nil, 0, err
	}

	return emails, count, nil
}

func (r *processedEmailRepository) UpdateStatus(ctx context.Context, id string, status enum.ProcessingStatus, patch *interfaces.StatusPatch) (*models.ProcessedEmail, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "processedEmailRepository.UpdateStatus")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagEntity(span, id)
	span.SetTag("status", status.String())

	if id == "" {
		return nil, ErrInvalidInput
	}

	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}

	if status.IsTerminal() {
		updates["processed_at"] = utils.Now()
	}

	if patch != nil {
		if patch.AIResponse != nil {
			updates["ai_response"] = patch.AIResponse
		}
		if patch.ExtractedData != nil {
			updates["extracted_data"] = patch.ExtractedData
		}
		if patch.MatchedIntentionID != nil {
			updates["matched_intention_id"] = *patch.MatchedIntentionID
		}
		if patch.AppliedPriceID != nil {
			updates["applied_price_id"] = *patch.AppliedPriceID
		}
		if patch.ExecutedActions != nil {
			updates["executed_actions"] = patch.ExecutedActions
		}
		if patch.Error != nil {
			updates["error"] = *patch.Error
		}
		if patch.Attempts != nil {
			updates["attempts"] = *patch.Attempts
		}
		if patch.ProcessingDuration != nil {
			updates["processing_duration"] = *patch.ProcessingDuration
		}
	}

	// Single-row update keeps the patch atomic with respect to readers
	result := r.db.WithContext(ctx).
		Model(&models.ProcessedEmail{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		return nil, ErrEmailNotFound
	}

	var email models.ProcessedEmail
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&email).Error; err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	return &email, nil
}
