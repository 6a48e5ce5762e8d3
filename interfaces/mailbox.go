package interfaces

import (
	"context"

	"github.com/intentstack/intentstack/dto"
)

// MailboxCredentials carries everything needed to open one IMAP session.
// Password arrives already decrypted.
type MailboxCredentials struct {
	Username string
	Password string
	Host     string
	Port     int
	TLS      bool
}

// MailboxClient pulls unseen messages from a user's mailbox
type MailboxClient interface {
	FetchUnseen(ctx context.Context, credentials MailboxCredentials) ([]dto.RawMessage, error)
}
