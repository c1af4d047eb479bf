package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

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
	slog.SetDefault(logging.New(cfg, "riverbot"))
	slog.Info("starting river bot", "env", cfg.AppEnv, "fetchLimit", cfg.FetchLimit)

	useCase, err := buildUseCase(cfg)
	if err != nil {
		slog.Error("failed to build report pipeline", "error", err)
		os.Exit(1)
	}

	if err := useCase.PublishReport(); err != nil {
		slog.Error("report run failed", "error", err)
		os.Exit(1)
	}
	slog.Info("report run complete")
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
