package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/intentstack/intentstack/internal/enum"
	"github.com/intentstack/intentstack/internal/utils"
)

// ProcessedEmail is one inbound message tracked through the pipeline.
// Created PENDING by the ingestor, mutated only by the processor.
type ProcessedEmail struct {
	ID     string `gorm:"column:id;type:varchar(50);primaryKey" json:"id"`
	UserID string `gorm:"column:user_id;type:varchar(50);not null;uniqueIndex:idx_user_message" json:"userId"`

	// MessageID is the mailbox server's message id, the dedup key
	// within a user's scope
	MessageID string `gorm:"column:message_id;type:varchar(255);not null;uniqueIndex:idx_user_message" json:"messageId"`

	Subject string `gorm:"column:subject;type:varchar(1000)" json:"subject"`
	Content string `gorm:"column:content;type:text" json:"content"`
	Sender  string `gorm:"column:sender;type:varchar(255);index" json:"sender"`

	HasAttachment bool       `gorm:"column:has_attachment;default:false" json:"hasAttachment"`
	ReceivedAt    *time.Time `gorm:"column:received_at;type:timestamp;index" json:"receivedAt"`

	// Workflow fields
	Status             enum.ProcessingStatus `gorm:"column:status;type:varchar(50);index;not null;default:'PENDING'" json:"status"`
	Attempts           int                   `gorm:"column:attempts;default:0" json:"attempts"`
	ProcessingDuration int64                 `gorm:"column:processing_duration;default:0" json:"processingDuration"`

	ExtractedData JSONMap `gorm:"column:extracted_data;type:jsonb" json:"extractedData"`
	AIResponse    JSONMap `gorm:"column:ai_response;type:jsonb" json:"aiResponse"`

	MatchedIntentionID *string `gorm:"column:matched_intention_id;type:varchar(50);index" json:"matchedIntentionId"`
	AppliedPriceID     *string `gorm:"column:applied_price_id;type:varchar(50)" json:"appliedPriceId"`

	// ExecutedActions is the ordered list of per-action outcomes
	ExecutedActions JSONArray `gorm:"column:executed_actions;type:jsonb" json:"executedActions"`

	Error       string     `gorm:"column:error;type:text" json:"error"`
	ProcessedAt *time.Time `gorm:"column:processed_at;type:timestamp" json:"processedAt"`

	// Soft deactivation is owned by the CRUD layer, never the pipeline
	IsActive bool `gorm:"column:is_active;not null;default:true" json:"isActive"`

	CreatedAt time.Time      `gorm:"column:created_at;type:timestamp;default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"column:updated_at;type:timestamp;default:current_timestamp" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (ProcessedEmail) TableName() string {
	return "processed_emails"
}

func (e *ProcessedEmail) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = utils.GenerateNanoIDWithPrefix("email", 24)
	}
	e.CreatedAt = utils.Now()
	return nil
}
