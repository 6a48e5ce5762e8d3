package config

import (
	"log"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"github.com/intentstack/intentstack/internal/logger"
	"github.com/intentstack/intentstack/internal/tracing"
)

type Config struct {
	AppConfig      *AppConfig
	Logger         *logger.Config
	Tracing        *tracing.JaegerConfig
	DatabaseConfig *IntentstackDatabaseConfig
	AIConfig       *AIConfig
	SMTPConfig     *SMTPConfig
}

func InitConfig() (*Config, error) {
	config := &Config{
		AppConfig:      &AppConfig{},
		Logger:         &logger.Config{},
		Tracing:        &tracing.JaegerConfig{},
		DatabaseConfig: &IntentstackDatabaseConfig{},
		AIConfig:       &AIConfig{},
		SMTPConfig:     &SMTPConfig{},
	}

	err := godotenv.Load()
	if err != nil {
		log.Print("Unable to load .env file")
	}

	err = env.Parse(config)
	if err != nil {
		log.Fatalf("Error loading intentstack config: %v", err)
	}

	return config, nil
}
