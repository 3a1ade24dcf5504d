package di

import (
	"context"
	"time"

	"tourdesk/config"
	"tourdesk/infras/kafka"
	"tourdesk/infras/otel"
	"tourdesk/infras/postgres"
	"tourdesk/infras/redis"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const otelFlushTimeout = 5 * time.Second

func providePostgres(cfg *config.Config) (*postgres.Connection, func()) {
	conn := postgres.New(cfg)

	return conn, conn.Close
}

func provideRedis(cfg *config.Config) (*goRedis.Client, func()) {
	client := redis.New(cfg)

	return client, func() {
		if err := client.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close Redis client")
		}
	}
}

func provideOtel(cfg *config.Config) (otel.Otel, func()) {
	tracer := otel.New(cfg)

	return tracer, func() {
		ctx, cancel := context.WithTimeout(context.Background(), otelFlushTimeout)
		defer cancel()

		if err := tracer.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to flush spans")
		}
	}
}

func provideKafka(cfg *config.Config, tracer otel.Otel) (kafka.Client, func()) {
	client := kafka.New(cfg, tracer)

	return client, func() {
		if err := client.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close Kafka writers")
		}
	}
}
