package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"phishguard/internal/detection"
	"phishguard/internal/policy"
	"phishguard/internal/server"
	"phishguard/internal/threat"
)

func main() {
	cfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("config error", "err", err)
		os.Exit(1)
	}
	logger := server.NewLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	det := detection.NewPhishingDetector(logger)
	// the service still starts without a model and answers "Model not loaded"
	_ = det.LoadModel(cfg.ModelPath)

	store := threat.NewBloomStore(1_000_000, 0.001, logger)
	loadFeeds(ctx, cfg, store, logger)

	srv := server.New(det, policy.NewEngine(), store, cfg, logger)
	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}

func loadFeeds(ctx context.Context, cfg *server.Config, store *threat.BloomStore, logger *slog.Logger) {
	controller := threat.NewETLController(store, logger)
	if cfg.FeedFile != "" {
		controller.Register(threat.NewFileFetcher(cfg.FeedFile))
	}
	if cfg.FeedURL != "" {
		controller.Register(threat.NewHTTPFetcher(cfg.FeedURL))
	}

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	if err := controller.Run(ctx); err != nil {
		logger.Warn("phishing feed incomplete", "err", err)
	}
}
