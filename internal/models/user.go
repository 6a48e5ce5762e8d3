package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/intentstack/intentstack/internal/utils"
)

// User owns one monitored mailbox and its running counters
type User struct {
	ID    string `gorm:"column:id;type:varchar(50);primaryKey" json:"id"`
	Email string `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`

	// Mailbox credentials; password is encrypted at rest
	EmailPassword string `gorm:"column:email_password;type:text;not null" json:"-"`
	ImapHost      string `gorm:"column:imap_host;type:varchar(255);not null" json:"imapHost"`
	ImapPort      int    `gorm:"column:imap_port;not null;default:993" json:"imapPort"`
	ImapTLS       bool   `gorm:"column:imap_tls;not null;default:true" json:"imapTls"`

	// Running counters, incremented by the pipeline
	EmailsProcessed   int `gorm:"column:emails_processed;default:0" json:"emailsProcessed"`
	MatchedIntentions int `gorm:"column:matched_intentions;default:0" json:"matchedIntentions"`

	LastProcessedAt *time.Time `gorm:"column:last_processed_at;type:timestamp" json:"lastProcessedAt"`
	LastError       string     `gorm:"column:last_error;type:text" json:"lastError"`

	IsActive bool `gorm:"column:is_active;not null;default:true" json:"isActive"`

	CreatedAt time.Time      `gorm:"column:created_at;type:timestamp;default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"column:updated_at;type:timestamp;default:current_timestamp" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = utils.GenerateNanoIDWithPrefix("user", 16)
	}
	u.CreatedAt = utils.Now()
	return nil
}
