package config

import (
	"github.com/intentstack/intentstack/internal/logger"
	"github.com/intentstack/intentstack/internal/tracing"
)

type AppConfig struct {
	APIPort          string `env:"PORT,required" envDefault:"13333"`
	APIKey           string `env:"API_KEY,required"`
	RabbitMQURL      string `env:"RABBITMQ_URL"`
	EncryptionSecret string `env:"ENCRYPTION_SECRET,required"`
	Logger           *logger.Config
	Tracing          *tracing.JaegerConfig
}

type IntentstackDatabaseConfig struct {
	Host            string `env:"INTENTSTACK_POSTGRES_HOST,required"`
	Port            string `env:"INTENTSTACK_POSTGRES_PORT,required"`
	User            string `env:"INTENTSTACK_POSTGRES_USER,required"`
	DBName          string `env:"INTENTSTACK_POSTGRES_DB_NAME,required"`
	Password        string `env:"INTENTSTACK_POSTGRES_PASSWORD,required"`
	MaxConn         int    `env:"INTENTSTACK_POSTGRES_DB_MAX_CONN" envDefault:"10"`
	MaxIdleConn     int    `env:"INTENTSTACK_POSTGRES_DB_MAX_IDLE_CONN" envDefault:"5"`
	ConnMaxLifetime int    `env:"INTENTSTACK_POSTGRES_DB_CONN_MAX_LIFETIME" envDefault:"30"`
	LogLevel        string `env:"INTENTSTACK_POSTGRES_LOG_LEVEL" envDefault:"WARN"`
	SSLMode         string `env:"INTENTSTACK_POSTGRES_SSL_MODE" envDefault:"require"`
}

type AIConfig struct {
	OpenAIApiKey    string `env:"OPENAI_API_KEY"`
	OpenAIModel     string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	AnthropicApiKey string `env:"ANTHROPIC_API_KEY"`
	AnthropicModel  string `env:"ANTHROPIC_MODEL" envDefault:"claude-3-5-haiku-latest"`
	AnthropicApiUrl string `env:"ANTHROPIC_API_URL" envDefault:"https://api.anthropic.com"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM"`
}
