// Package wholesaler ingests period upserts published by the wholesaler sync engine.
package wholesaler

//go:generate go run go.uber.org/mock/mockgen -source=./consumer.go -destination=./mocks/syncer_mock.go -package=mocks

import (
	"context"
	"net/http"

	"tourdesk/config"
	"tourdesk/infras/kafka"
	"tourdesk/infras/metrics"
	"tourdesk/infras/otel"
	"tourdesk/internal/domains/period/model/dto"
	"tourdesk/shared/constant"
	"tourdesk/shared/failure"
	"tourdesk/shared/validator"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

type PeriodSyncer interface {
	Sync(ctx context.Context, req dto.SyncPeriodRequest) (string, error)
}

type Consumer struct {
	syncer  PeriodSyncer
	kafka   kafka.Client
	cfg     *config.Config
	otel    otel.Otel
	metrics metrics.Metrics
}

func New(syncer PeriodSyncer, kafka kafka.Client, cfg *config.Config, otel otel.Otel, metrics metrics.Metrics) Consumer {
	return Consumer{
		syncer:  syncer,
		kafka:   kafka,
		cfg:     cfg,
		otel:    otel,
		metrics: metrics,
	}
}

// Run blocks until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.kafka.Consume(ctx, c.cfg.Kafka.ConsumerGroup, c.cfg.Kafka.Topics.WholesalerPeriods, c.Handle) //nolint:wrapcheck
}

// Handle upserts one period. Malformed or rejected messages are dropped,
// only server side failures are returned so the client retries them.
func (c *Consumer) Handle(ctx context.Context, message kafkaGo.Message) (err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelConsumerScopeName, constant.OtelConsumerScopeName+".WholesalerPeriod")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	topic := c.cfg.Kafka.Topics.WholesalerPeriods

	scope.SetAttributes(map[string]any{
		"messaging.topic":  topic,
		"messaging.key":    string(message.Key),
		"messaging.offset": message.Offset,
	})

	_, req, err := kafka.DecodeKafkaMessage[dto.SyncPeriodRequest](message)
	if err != nil {
		c.metrics.IncConsumed(topic, false)

		return nil
	}

	if err = validator.ValidateStruct(&req); err != nil {
		log.Warn().Err(err).Str("external_id", req.ExternalID).Msg("dropping invalid wholesaler period")
		c.metrics.IncConsumed(topic, false)

		return nil
	}

	id, err := c.syncer.Sync(ctx, req)
	if err != nil {
		c.metrics.IncConsumed(topic, false)

		if failure.GetCode(err) < http.StatusInternalServerError {
			log.Warn().Err(err).Str("external_id", req.ExternalID).Msg("wholesaler period rejected")

			return nil
		}

		log.Error().Err(err).Str("external_id", req.ExternalID).Msg("failed to sync wholesaler period")

		return err
	}

	log.Info().Str("external_id", req.ExternalID).Str("period_id", id).Msg("wholesaler period synced")
	c.metrics.IncConsumed(topic, true)

	return nil
}
