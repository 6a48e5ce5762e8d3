package repository

import (
	"gorm.io/gorm"

	"github.com/intentstack/intentstack/interfaces"
	"github.com/intentstack/intentstack/internal/models"
)

type Repositories struct {
	UserRepository           interfaces.UserRepository
	IntentionRepository      interfaces.IntentionRepository
	PriceRepository          interfaces.PriceRepository
	ActionRepository         interfaces.ActionRepository
	ProcessedEmailRepository interfaces.ProcessedEmailRepository
}

func InitRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		UserRepository:           NewUserRepository(db),
		IntentionRepository:      NewIntentionRepository(db),
		PriceRepository:          NewPriceRepository(db),
		ActionRepository:         NewActionRepository(db),
		ProcessedEmailRepository: NewProcessedEmailRepository(db),
	}
}

func MigrateDB(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Intention{},
		&models.Price{},
		&models.Action{},
		&models.ProcessedEmail{},
	)
}
