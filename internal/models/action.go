package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/intentstack/intentstack/internal/enum"
	"github.com/intentstack/intentstack/internal/utils"
)

// Action is a reusable, typed side-effect template. Config values may
// contain {{a.b.c}} placeholders resolved against the execution context.
type Action struct {
	ID   string          `gorm:"column:id;type:varchar(50);primaryKey" json:"id"`
	Name string          `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Type enum.ActionType `gorm:"column:type;type:varchar(50);index;not null" json:"type"`

	Config JSONMap `gorm:"column:config;type:jsonb;not null" json:"config"`

	// Execution order within an intention's action list
	Order int `gorm:"column:execution_order;not null;default:0" json:"order"`

	// Execution bookkeeping, owned by the executor
	SuccessCount         int        `gorm:"column:success_count;default:0" json:"successCount"`
	FailureCount         int        `gorm:"column:failure_count;default:0" json:"failureCount"`
	AverageExecutionTime float64    `gorm:"column:average_execution_time;default:0" json:"averageExecutionTime"`
	LastExecutedAt       *time.Time `gorm:"column:last_executed_at;type:timestamp" json:"lastExecutedAt"`
	LastError            string     `gorm:"column:last_error;type:text" json:"lastError"`

	IsActive bool `gorm:"column:is_active;not null;default:true" json:"isActive"`

	CreatedAt time.Time      `gorm:"column:created_at;type:timestamp;default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"column:updated_at;type:timestamp;default:current_timestamp" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Action) TableName() string {
	return "actions"
}

func (a *Action) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = utils.GenerateNanoIDWithPrefix("act", 16)
	}
	a.CreatedAt = utils.Now()
	return nil
}
