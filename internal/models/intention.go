package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/intentstack/intentstack/internal/utils"
)

// Intention is an admin-defined classification target. The pipeline is
// read-only on everything except MatchCount and AverageConfidence.
type Intention struct {
	ID          string `gorm:"column:id;type:varchar(50);primaryKey" json:"id"`
	Name        string `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Description string `gorm:"column:description;type:text" json:"description"`

	// Keywords are substring-matched against the classifier label.
	// Order is preserved for display only.
	Keywords pq.StringArray `gorm:"column:keywords;type:text[]" json:"keywords"`

	// AIConfig holds threshold, extractFields and prompt overrides
	AIConfig JSONMap `gorm:"column:ai_config;type:jsonb" json:"aiConfig"`

	// Ordered action references executed on match
	ActionIDs pq.StringArray `gorm:"column:action_ids;type:text[]" json:"actionIds"`

	// Running statistics; AverageConfidence is a running mean over
	// exactly MatchCount updates
	MatchCount        int     `gorm:"column:match_count;default:0" json:"matchCount"`
	AverageConfidence float64 `gorm:"column:average_confidence;default:0" json:"averageConfidence"`

	IsActive bool `gorm:"column:is_active;not null;default:true" json:"isActive"`

	CreatedAt time.Time      `gorm:"column:created_at;type:timestamp;default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"column:updated_at;type:timestamp;default:current_timestamp" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Intention) TableName() string {
	return "intentions"
}

func (i *Intention) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = utils.GenerateNanoIDWithPrefix("int", 16)
	}
	i.CreatedAt = utils.Now()
	return nil
}

// ExtractFields returns the aiConfig extractFields list, if configured
func (i *Intention) ExtractFields() []string {
	if i.AIConfig == nil {
		return nil
	}
	raw, ok := i.AIConfig["extractFields"]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []string:
		return v
	case []interface{}:
		fields := make([]string, 0, len(v))
		for _, f := range v {
			if s, ok := f.(string); ok {
				fields = append(fields, s)
			}
		}
		return fields
	}
	return nil
}
