package config

import (
	"os"
	"strconv"
	"time"

	"github.com/dutyrotation/slack-duty-bot/internal/domain"
)

type Config struct {
	SlackBotToken      string
	SlackSigningSecret string
	DatabasePath       string
	Port               string

	// Trigger cadence. Kept configurable so deployments in other
	// timezones or test environments can move the trigger windows.
	TickInterval   time.Duration
	AnnounceHour   int
	HandoffWeekday time.Weekday
	HandoffHour    int
}

func Load() *Config {
	return &Config{
		SlackBotToken:      getEnv("SLACK_BOT_TOKEN", ""),
		SlackSigningSecret: getEnv("SLACK_SIGNING_SECRET", ""),
		DatabasePath:       getEnv("DATABASE_PATH", "./duty.db"),
		Port:               getEnv("PORT", "3000"),
		TickInterval:       getEnvDuration("TICK_INTERVAL", domain.DefaultTickInterval),
		AnnounceHour:       getEnvInt("VACATION_ANNOUNCE_HOUR", domain.DefaultAnnounceHour),
		HandoffWeekday:     time.Weekday(getEnvInt("HANDOFF_WEEKDAY", int(domain.DefaultHandoffWeekday))),
		HandoffHour:        getEnvInt("HANDOFF_HOUR", domain.DefaultHandoffHour),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
