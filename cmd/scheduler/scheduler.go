package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"riverbot/internal/api"
	"riverbot/internal/config"
	"riverbot/internal/integration"
	"riverbot/internal/integration/twitter"
	"riverbot/internal/logging"
	"riverbot/internal/stations"
	"riverbot/internal/usecases"
)

func main() {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logging.New(cfg, "riverbot-scheduler"))
	slog.Info("starting river bot scheduler", "schedule", cfg.CronSchedule)

	useCase, err := buildUseCase(cfg)
	if err != nil {
		slog.Error("failed to build report pipeline", "error", err)
		os.Exit(1)
	}

	// Run once immediately so a fresh deploy posts without waiting for the
	// next tick.
	if err := useCase.PublishReport(); err != nil {
		slog.Error("initial report run failed", "error", err)
	}

	c := cron.New()
	_, err = c.AddFunc(cfg.CronSchedule, func() {
		if err := useCase.PublishReport(); err != nil {
			slog.Error("scheduled report run failed", "error", err)
		}
	})
	if err != nil {
		slog.Error("failed to set up cron job", "error", err)
		os.Exit(1)
	}

	c.Start()
	slog.Info("report runs scheduled")

	// Keep the process running.
	select {}
}

func buildUseCase(cfg config.Config) (*usecases.ReportUseCase, error) {
	catalog := stations.DefaultCatalog()
	fetcher := integration.NewRiverFetcher(cfg.FeedURL)

	publishers := []usecases.Publisher{
		twitter.NewClient(twitter.Credentials{
			ConsumerKey:    cfg.ConsumerKey,
			ConsumerSecret: cfg.ConsumerSecret,
			AccessToken:    cfg.AccessToken,
			AccessSecret:   cfg.AccessSecret,
		}),
	}
	if cfg.TelegramEnabled() {
		mirror, err := api.NewTelegramPublisher(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			return nil, err
		}
		publishers = append(publishers, mirror)
	}

	return usecases.NewReportUseCase(fetcher, catalog, cfg.FetchLimit, publishers...), nil
}
