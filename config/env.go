package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config carries everything read from the environment at startup.
type Config struct {
	Port                 string
	DatabaseURL          string
	SlackBotToken        string
	BirthdayChannelID    string
	AnniversaryChannelID string
	Timezone             string
	PostTime             string
	PublicBaseURL        string
	RedisURL             string
}

func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		err := godotenv.Load()
		if err != nil {
			log.Println("Warning: .env file not loaded")
		}
	}
}

func FromEnv() Config {
	cfg := Config{
		Port:                 getEnv("PORT", "8080"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		SlackBotToken:        os.Getenv("SLACK_BOT_TOKEN"),
		BirthdayChannelID:    os.Getenv("BIRTHDAY_CHANNEL_ID"),
		AnniversaryChannelID: os.Getenv("ANNIVERSARY_CHANNEL_ID"),
		Timezone:             getEnv("CELEBRATION_TIMEZONE", "Asia/Kathmandu"),
		PostTime:             getEnv("POST_TIME", "08:00"),
		PublicBaseURL:        os.Getenv("PUBLIC_BASE_URL"),
		RedisURL:             os.Getenv("REDIS_URL"),
	}

	// Anniversaries share the birthday channel unless configured apart.
	if cfg.AnniversaryChannelID == "" {
		cfg.AnniversaryChannelID = cfg.BirthdayChannelID
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
