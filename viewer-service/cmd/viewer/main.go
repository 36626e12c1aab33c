package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"gridfeed/pkg/kafka"
	"gridfeed/pkg/logging"
	"gridfeed/pkg/observability"
	"gridfeed/pkg/pprof"
	"gridfeed/viewer-service/internal/config"
	"gridfeed/viewer-service/internal/consumer"
	"gridfeed/viewer-service/internal/http"
	"gridfeed/viewer-service/internal/state"
	"gridfeed/viewer-service/internal/storage"
)

func main() {
	cfg := config.Load()
	logger := logging.New("viewer", cfg.LogLevel)

	observability.Init()
	observability.ServeMetrics(cfg.MetricsPort)
	pprof.Start(cfg.PprofPort, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gridState := state.New(cfg.Rows, cfg.Columns)

	var recorder consumer.Recorder
	if cfg.PostgresDSN != "" {
		store, err := storage.New(cfg.PostgresDSN)
		if err != nil {
			logger.Fatal().Err(err).Msg("open postgres")
		}
		defer store.Close()

		if err := storage.RunMigrations(cfg.PostgresDSN, cfg.MigrationsPath, logger); err != nil {
			logger.Fatal().Err(err).Msg("run migrations")
		}
		recorder = store
	}

	pool := kafka.NewPool(ctx, cfg.Workers, cfg.QueueSize, logger)
	defer func() {
		logger.Info().Msg("shutting down pool")
		pool.Shutdown()
	}()

	proc := consumer.NewProcessor(gridState, recorder, logger)
	cons := kafka.NewConsumer(cfg.KafkaBroker, cfg.KafkaTopic, cfg.GroupID, pool, proc)
	defer cons.Close()

	server := http.NewServer(gridState, logger)
	go server.Run(cfg.HTTPPort)

	logger.Info().
		Str("broker", cfg.KafkaBroker).
		Str("topic", cfg.KafkaTopic).
		Str("group", cfg.GroupID).
		Msg("viewer service started")

	if err := cons.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("consumer stopped")
	}
}
