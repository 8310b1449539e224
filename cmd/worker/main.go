package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"celebrisaludos/internal/app"
	"celebrisaludos/internal/catalog"
	"celebrisaludos/internal/config"
	"celebrisaludos/internal/log"
	"celebrisaludos/internal/queue"
	"celebrisaludos/internal/service"
	"celebrisaludos/internal/tasks"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment, cfg.Logging.Level).With().Str("component", "worker").Logger()

	if !cfg.Events.Enabled {
		logger.Fatal().Msg("events.enabled must be true for the worker")
	}
	if cfg.Persistence.Driver == config.DriverMemory {
		logger.Warn().Msg("memory persistence is private to this process, payment sweeps will find nothing")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := app.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open persistence")
	}
	defer rt.Close(logger)

	// no publisher: the worker never emits lifecycle events
	requests := service.NewRequestService(rt.Requests, catalog.FromConfig(cfg.Catalog.Packages), nil, logger)
	processor := tasks.NewProcessor(requests, cfg.Jobs.PaymentReminderAfter, logger)

	consumer := queue.NewConsumer(rt.Redis, queue.Options{
		Stream:        cfg.Events.Stream,
		Group:         cfg.Worker.Group,
		Consumer:      cfg.Worker.Consumer,
		Block:         cfg.Worker.BlockTimeout,
		MinIdle:       cfg.Worker.MinIdle,
		ClaimInterval: cfg.Worker.ClaimInterval,
	}, logger, processor)

	logger.Info().Str("stream", cfg.Events.Stream).Str("group", cfg.Worker.Group).Msg("worker started")
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("consumer stopped unexpectedly")
	}
	logger.Info().Msg("worker exited")
}
