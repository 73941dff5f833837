package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Port         string `mapstructure:"PORT"`
	DatabasePath string `mapstructure:"DATABASE_PATH"`
	JWTSecret    string `mapstructure:"JWT_SECRET"`

	// StaffPIN gates staff actions: login and cash received at the
	// public registration desk.
	StaffPIN string `mapstructure:"STAFF_PIN"`

	// TicketPrice is the solo unit price in whole naira. Guest and group
	// prices derive from it.
	TicketPrice int    `mapstructure:"TICKET_PRICE"`
	QRAPIURL    string `mapstructure:"QR_API_URL"`

	EventName string `mapstructure:"EVENT_NAME"`
	EventDate string `mapstructure:"EVENT_DATE"`
	EventTime string `mapstructure:"EVENT_TIME"`

	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     string `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	EmailFrom    string `mapstructure:"EMAIL_FROM"`

	RabbitURL   string `mapstructure:"RABBITMQ_URL"`
	TicketQueue string `mapstructure:"TICKET_QUEUE"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	FeedChannel   string `mapstructure:"FEED_CHANNEL"`

	DiscordBotToken               string `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordNotificationsChannelID string `mapstructure:"DISCORD_NOTIFICATIONS_CHANNEL_ID"`
}

func LoadConfig() *Config {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DATABASE_PATH", "crossover.db")
	viper.SetDefault("TICKET_PRICE", 2000)
	viper.SetDefault("QR_API_URL", "https://api.qrserver.com/v1/create-qr-code/")
	viper.SetDefault("EVENT_NAME", "Crossover Night")
	viper.SetDefault("EVENT_DATE", "December 31, 2024")
	viper.SetDefault("EVENT_TIME", "7:00 PM")
	viper.SetDefault("SMTP_PORT", "587")
	viper.SetDefault("TICKET_QUEUE", "tickets.issued")
	viper.SetDefault("FEED_CHANNEL", "registrations.changed")

	viper.BindEnv("JWT_SECRET")
	viper.BindEnv("STAFF_PIN")
	viper.BindEnv("TICKET_PRICE")
	viper.BindEnv("QR_API_URL")
	viper.BindEnv("SMTP_HOST")
	viper.BindEnv("SMTP_PORT")
	viper.BindEnv("SMTP_USER")
	viper.BindEnv("SMTP_PASSWORD")
	viper.BindEnv("EMAIL_FROM")
	viper.BindEnv("RABBITMQ_URL")
	viper.BindEnv("REDIS_ADDR")
	viper.BindEnv("REDIS_PASSWORD")
	viper.BindEnv("DISCORD_BOT_TOKEN")
	viper.BindEnv("DISCORD_NOTIFICATIONS_CHANNEL_ID")

	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatal().Err(err).Msg("unable to decode config into struct")
	}

	return &config
}
