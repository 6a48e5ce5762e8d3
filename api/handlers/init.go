package handlers

import (
	"github.com/intentstack/intentstack/interfaces"
	"github.com/intentstack/intentstack/internal/repository"
	"github.com/intentstack/intentstack/services/pipeline"
)

type APIHandlers struct {
	Emails *EmailsHandler
	Users  *UsersHandler
}

func InitHandlers(r *repository.Repositories, processor *pipeline.Processor, cipher interfaces.SecretCipher) *APIHandlers {
	return &APIHandlers{
		Emails: NewEmailsHandler(r, processor),
		Users:  NewUsersHandler(r, cipher),
	}
}
