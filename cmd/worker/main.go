package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"tourdesk/config"
	"tourdesk/di"
	"tourdesk/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)
	logger.SetFormat(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer, cleanup := di.InitializeWorker()
	defer cleanup()

	log.Info().Str("topic", cfg.Kafka.Topics.WholesalerPeriods).Msg("Starting wholesaler worker.")

	if err := consumer.Run(ctx); err != nil {
		log.Error().Err(err).Msg("Wholesaler worker stopped")
	}

	log.Info().Msg("Wholesaler worker shut down.")
}
