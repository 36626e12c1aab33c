package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"gridfeed/loadgen-service/internal/config"
	"gridfeed/loadgen-service/internal/runner"
	"gridfeed/loadgen-service/internal/synth"
	"gridfeed/pkg/kafka"
	"gridfeed/pkg/logging"
	"gridfeed/pkg/observability"
	"gridfeed/pkg/pprof"
)

func main() {
	cfg := config.Load()
	logger := logging.New("loadgen", cfg.LogLevel)

	observability.Init()
	observability.ServeMetrics(cfg.MetricsPort)
	pprof.Start(cfg.PprofPort, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := kafka.Dial(ctx, cfg.KafkaBroker, cfg.KafkaTopic); err != nil {
		logger.Fatal().Err(err).Msg("broker unreachable")
	}

	producer, err := kafka.NewProducer(kafka.ProducerConfig{
		Broker:      cfg.KafkaBroker,
		Topic:       cfg.KafkaTopic,
		Compression: cfg.Compression,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("create producer")
	}

	r := runner.New(producer, synth.New(cfg.Rows, cfg.Columns), runner.Config{
		GridID:      cfg.GridID,
		MinChanges:  cfg.MinChanges,
		MaxChanges:  cfg.MaxChanges,
		MinSleep:    cfg.MinSleep,
		MaxSleep:    cfg.MaxSleep,
		MaxAttempts: cfg.MaxAttempts,
	}, logger)

	logger.Info().
		Str("broker", cfg.KafkaBroker).
		Str("topic", cfg.KafkaTopic).
		Str("gridId", cfg.GridID).
		Msg("load generator started")

	// The runner owns the producer and closes it on the way out.
	if err := r.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("load generator failed")
	}

	logger.Info().Msg("load generator stopped")
}
