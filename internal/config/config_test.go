package config

import (
	"log/slog"
	"strings"
	"testing"
)

func setRequiredCreds(t *testing.T) {
	t.Setenv("CRB_CONSUMER_KEY", "ck")
	t.Setenv("CRB_CONSUMER_SECRET", "cs")
	t.Setenv("CRB_ACCESS_TOKEN", "at")
	t.Setenv("CRB_ACCESS_TOKEN_SECRET", "as")
}

func clearOptional(t *testing.T) {
	for _, name := range []string{
		"APP_ENV", "LOG_LEVEL", "RIVER_DATA_URL", "FETCH_LIMIT",
		"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "CRON_SCHEDULE",
	} {
		t.Setenv(name, "")
	}
}

func TestLoadFromEnvDefaults(t *testing.T) {
	setRequiredCreds(t)
	clearOptional(t)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}

	if cfg.AppEnv != "dev" {
		t.Errorf("AppEnv = %q, want dev", cfg.AppEnv)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
	if cfg.FetchLimit != 20000 {
		t.Errorf("FetchLimit = %d, want 20000", cfg.FetchLimit)
	}
	if cfg.CronSchedule != "0 * * * *" {
		t.Errorf("CronSchedule = %q, want hourly default", cfg.CronSchedule)
	}
	if cfg.ConsumerKey != "ck" || cfg.AccessSecret != "as" {
		t.Error("credentials not loaded from environment")
	}
	if cfg.TelegramEnabled() {
		t.Error("Telegram mirror should be disabled without token and chat id")
	}
}

func TestLoadFromEnvMissingCredential(t *testing.T) {
	setRequiredCreds(t)
	clearOptional(t)
	t.Setenv("CRB_ACCESS_TOKEN", "")

	_, err := LoadFromEnv()
	if err == nil {
		t.Fatal("expected an error for a missing credential")
	}
	if !strings.Contains(err.Error(), "CRB_ACCESS_TOKEN") {
		t.Errorf("error should name the missing variable, got %v", err)
	}
}

func TestLoadFromEnvTelegram(t *testing.T) {
	setRequiredCreds(t)
	clearOptional(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "-100123456")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}
	if !cfg.TelegramEnabled() {
		t.Error("Telegram mirror should be enabled")
	}
	if cfg.TelegramChatID != -100123456 {
		t.Errorf("TelegramChatID = %d, want -100123456", cfg.TelegramChatID)
	}
}

func TestLoadFromEnvInvalidValues(t *testing.T) {
	setRequiredCreds(t)
	clearOptional(t)

	cases := []struct{ name, value string }{
		{"APP_ENV", "staging"},
		{"LOG_LEVEL", "verbose"},
		{"FETCH_LIMIT", "lots"},
		{"FETCH_LIMIT", "-5"},
		{"TELEGRAM_CHAT_ID", "not-a-number"},
	}
	for _, tc := range cases {
		t.Run(tc.name+"="+tc.value, func(t *testing.T) {
			clearOptional(t)
			t.Setenv(tc.name, tc.value)
			if _, err := LoadFromEnv(); err == nil {
				t.Errorf("expected an error for %s=%q", tc.name, tc.value)
			}
		})
	}
}
