package services

import (
	"github.com/intentstack/intentstack/config"
	"github.com/intentstack/intentstack/interfaces"
	"github.com/intentstack/intentstack/internal/logger"
	"github.com/intentstack/intentstack/internal/repository"
	"github.com/intentstack/intentstack/services/ai"
	"github.com/intentstack/intentstack/services/cipher"
	"github.com/intentstack/intentstack/services/events"
	"github.com/intentstack/intentstack/services/executor"
	"github.com/intentstack/intentstack/services/mailbox"
	"github.com/intentstack/intentstack/services/pipeline"
	"github.com/intentstack/intentstack/services/smtp"
)

type Services struct {
	Cipher     interfaces.SecretCipher
	Classifier interfaces.IntentionClassifier
	Publisher  interfaces.EventPublisher
	Ingestor   *pipeline.Ingestor
	Processor  *pipeline.Processor
}

func InitServices(cfg *config.Config, log logger.Logger, repos *repository.Repositories) (*Services, error) {
	secretCipher, err := cipher.NewAESCipher(cfg.AppConfig.EncryptionSecret)
	if err != nil {
		return nil, err
	}

	// AI providers are tried in the order they are registered
	var providers []interfaces.AIProvider
	if cfg.AIConfig.OpenAIApiKey != "" {
		providers = append(providers, ai.NewOpenAIProvider(cfg.AIConfig))
	}
	if cfg.AIConfig.AnthropicApiKey != "" {
		providers = append(providers, ai.NewAnthropicProvider(cfg.AIConfig))
	}
	classifier := ai.NewClassifierService(log, providers...)

	// events
	var publisher interfaces.EventPublisher
	if cfg.AppConfig.RabbitMQURL != "" {
		rabbitPublisher, err := events.NewRabbitMQPublisher(cfg.AppConfig.RabbitMQURL, log, &events.PublisherConfig{
			MessageTTL:          events.DefaultMessageTTL,
			MaxRetries:          events.DefaultMaxRetries,
			ReconnectBackoff:    events.DefaultReconnectBackoff,
			MaxReconnectBackoff: events.DefaultMaxReconnectBackoff,
		})
		if err != nil {
			return nil, err
		}
		publisher = rabbitPublisher
	}

	sender := smtp.NewSender(cfg.SMTPConfig)
	actionExecutor := executor.NewActionExecutor(sender, publisher, repos.ProcessedEmailRepository)
	dispatcher := pipeline.NewDispatcher(repos.ActionRepository, actionExecutor, log)

	imapClient := mailbox.NewIMAPClient(log)
	ingestor := pipeline.NewIngestor(
		repos.UserRepository,
		repos.ProcessedEmailRepository,
		imapClient,
		secretCipher,
		log,
	)
	processor := pipeline.NewProcessor(
		repos.ProcessedEmailRepository,
		repos.UserRepository,
		repos.IntentionRepository,
		repos.PriceRepository,
		classifier,
		dispatcher,
		publisher,
		log,
	)

	services := Services{
		Cipher:     secretCipher,
		Classifier: classifier,
		Publisher:  publisher,
		Ingestor:   ingestor,
		Processor:  processor,
	}

	return &services, nil
}
