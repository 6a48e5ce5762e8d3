package cron_config

type Config struct {
	// Heartbeat check, every minute
	CronScheduleHeartbeat string `env:"CRON_SCHEDULE_HEARTBEAT" envDefault:"0 * * * * *"`
	// Mailbox ingestion pass, every 5 minutes
	CronScheduleEmailIngestion string `env:"CRON_SCHEDULE_EMAIL_INGESTION" envDefault:"0 */5 * * * *"`
	// Pending email processing pass, every 30 seconds
	CronScheduleEmailProcessing string `env:"CRON_SCHEDULE_EMAIL_PROCESSING" envDefault:"*/30 * * * * *"`
}
