// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Config carries everything the binaries need. Credentials come from the
// environment only and are never written to disk or logs.
type Config struct {
	AppEnv   string
	LogLevel slog.Level

	FeedURL    string
	FetchLimit int

	ConsumerKey    string
	ConsumerSecret string
	AccessToken    string
	AccessSecret   string

	// Optional Telegram mirror; both must be set to enable it.
	TelegramToken  string
	TelegramChatID int64

	// Used by cmd/scheduler only.
	CronSchedule string
}

// LoadFromEnv reads and validates configuration. A missing credential is a
// fatal startup condition.
func LoadFromEnv() (Config, error) {
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	logLevelStr := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if logLevelStr == "" {
		logLevelStr = "info"
	}
	level, err := parseLogLevel(logLevelStr)
	if err != nil {
		return Config{}, err
	}

	fetchLimitStr := strings.TrimSpace(os.Getenv("FETCH_LIMIT"))
	if fetchLimitStr == "" {
		fetchLimitStr = "20000"
	}
	fetchLimit, err := strconv.Atoi(fetchLimitStr)
	if err != nil || fetchLimit <= 0 {
		return Config{}, fmt.Errorf("invalid FETCH_LIMIT %q", fetchLimitStr)
	}

	cfg := Config{
		AppEnv:       appEnv,
		LogLevel:     level,
		FeedURL:      strings.TrimSpace(os.Getenv("RIVER_DATA_URL")),
		FetchLimit:   fetchLimit,
		CronSchedule: strings.TrimSpace(os.Getenv("CRON_SCHEDULE")),
	}
	if cfg.CronSchedule == "" {
		cfg.CronSchedule = "0 * * * *"
	}

	for _, cred := range []struct {
		name string
		dst  *string
	}{
		{"CRB_CONSUMER_KEY", &cfg.ConsumerKey},
		{"CRB_CONSUMER_SECRET", &cfg.ConsumerSecret},
		{"CRB_ACCESS_TOKEN", &cfg.AccessToken},
		{"CRB_ACCESS_TOKEN_SECRET", &cfg.AccessSecret},
	} {
		v := strings.TrimSpace(os.Getenv(cred.name))
		if v == "" {
			return Config{}, fmt.Errorf("%s environment variable is not set", cred.name)
		}
		*cred.dst = v
	}

	cfg.TelegramToken = strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))
	chatIDStr := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID"))
	if chatIDStr != "" {
		chatID, err := strconv.ParseInt(chatIDStr, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TELEGRAM_CHAT_ID %q: %w", chatIDStr, err)
		}
		cfg.TelegramChatID = chatID
	}

	return cfg, nil
}

// TelegramEnabled reports whether the optional Telegram mirror is configured.
func (c Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
