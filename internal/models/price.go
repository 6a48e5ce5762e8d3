package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/intentstack/intentstack/internal/utils"
)

// Price is a billing rule tied to one intention
type Price struct {
	ID          string `gorm:"column:id;type:varchar(50);primaryKey" json:"id"`
	IntentionID string `gorm:"column:intention_id;type:varchar(50);index;not null" json:"intentionId"`
	Name        string `gorm:"column:name;type:varchar(255);not null" json:"name"`

	Amount   float64 `gorm:"column:amount;not null" json:"amount"`
	Currency string  `gorm:"column:currency;type:varchar(10);not null;default:'USD'" json:"currency"`

	// Quota/overage: amount covers EmailQuota emails, each one beyond
	// costs AdditionalEmailPrice
	EmailQuota           int     `gorm:"column:email_quota;not null;default:100" json:"emailQuota"`
	AdditionalEmailPrice float64 `gorm:"column:additional_email_price;not null;default:0.1" json:"additionalEmailPrice"`

	// Criteria for applying this price, e.g. minWordCount, maxWordCount,
	// containsAttachments, senderDomain
	Criteria JSONMap `gorm:"column:criteria;type:jsonb" json:"criteria"`

	UsageCount int `gorm:"column:usage_count;default:0" json:"usageCount"`

	IsActive bool `gorm:"column:is_active;not null;default:true" json:"isActive"`

	CreatedAt time.Time      `gorm:"column:created_at;type:timestamp;default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"column:updated_at;type:timestamp;default:current_timestamp" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Price) TableName() string {
	return "prices"
}

func (p *Price) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = utils.GenerateNanoIDWithPrefix("price", 16)
	}
	p.CreatedAt = utils.Now()
	return nil
}
