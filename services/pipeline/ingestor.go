package pipeline

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/intentstack/intentstack/interfaces"
	"github.com/intentstack/intentstack/internal/logger"
	"github.com/intentstack/intentstack/internal/models"
	"github.com/intentstack/intentstack/internal/tracing"
)

// Ingestor pulls unseen mailbox messages and persists them as PENDING
// work items. It never classifies, prices or executes anything.
type Ingestor struct {
	users   interfaces.UserRepository
	emails  interfaces.ProcessedEmailRepository
	mailbox interfaces.MailboxClient
	cipher  interfaces.SecretCipher
	log     logger.Logger
}

func NewIngestor(
	users interfaces.UserRepository,
	emails interfaces.ProcessedEmailRepository,
	mailbox interfaces.MailboxClient,
	cipher interfaces.SecretCipher,
	log logger.Logger,
) *Ingestor {
	return &Ingestor{
		users:   users,
		emails:  emails,
		mailbox: mailbox,
		cipher:  cipher,
		log:     log,
	}
}

// RunIngestionPass fetches new mail for every active user. A failure
// for one user is recorded against that user and never aborts the pass.
func (i *Ingestor) RunIngestionPass(ctx context.Context) error {
	span, ctx := tracing.StartTracerSpan(ctx, "Ingestor.RunIngestionPass")
	defer span.Finish()
	tracing.TagComponentPipeline(span)

	i.log.Info("Starting email fetch for all users")

	users, err := i.users.ListActive(ctx)
	if err != nil {
		tracing.TraceErr(span, err)
		return errors.Wrap(err, "failed to list active users")
	}

	for _, user := range users {
		ingested, err := i.IngestForUser(ctx, user)
		if err != nil {
			i.log.Errorf("Error fetching emails for user %s: %v", user.Email, err)
			if recordErr := i.users.RecordError(ctx, user.ID, err.Error()); recordErr != nil {
				i.log.Errorf("Failed to record error for user %s: %v", user.ID, recordErr)
			}
			continue
		}
		i.log.Infof("Fetched %d new emails for user %s", ingested, user.Email)
	}

	i.log.Info("Email fetch completed")
	return nil
}

// IngestForUser opens the user's mailbox and stores each unseen message
// as a PENDING work item. The (user, messageId) dedup in the store makes
// re-ingestion of already seen messages a no-op, so the pass is
// idempotent. Returns the number of newly created work items.
func (i *Ingestor) IngestForUser(ctx context.Context, user *models.User) (int, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "Ingestor.IngestForUser")
	defer span.Finish()
	tracing.TagComponentPipeline(span)
	tracing.TagUser(span, user.ID)

	password, err := i.cipher.Decrypt(user.EmailPassword)
	if err != nil {
		tracing.TraceErr(span, err)
		return 0, errors.Wrap(err, "failed to decrypt mailbox password")
	}

	messages, err := i.mailbox.FetchUnseen(ctx, interfaces.MailboxCredentials{
		Username: user.Email,
		Password: password,
		Host:     user.ImapHost,
		Port:     user.ImapPort,
		TLS:      user.ImapTLS,
	})
	if err != nil {
		tracing.TraceErr(span, err)
		return 0, errors.Wrap(err, "failed to fetch unseen messages")
	}
	span.LogKV("fetchedCount", len(messages))

	newItems := 0
	for _, message := range messages {
		content := message.BodyText
		if content == "" {
			content = message.BodyHTML
		}

		email := &models.ProcessedEmail{
			UserID:        user.ID,
			MessageID:     message.MessageID,
			Subject:       message.Subject,
			Content:       content,
			Sender:        message.From,
			HasAttachment: message.HasAttachment,
			ReceivedAt:    message.ReceivedAt,
			ExtractedData: models.JSONMap{},
			AIResponse:    models.JSONMap{},
			IsActive:      true,
		}

		_, created, err := i.emails.Create(ctx, email)
		if err != nil {
			tracing.TraceErr(span, err)
			i.log.Errorf("Failed to store message %s for user %s: %v", message.MessageID, user.ID, err)
			continue
		}
		if created {
			newItems++
		}
	}

	if err := i.users.UpdateStatistics(ctx, user.ID, true, false); err != nil {
		tracing.TraceErr(span, err)
		i.log.Errorf("Failed to update statistics for user %s: %v", user.ID, err)
	}

	span.LogKV("result.created", newItems)
	return newItems, nil
}
