package wholesaler_test

import (
	"context"
	"errors"
	"testing"

	"tourdesk/config"
	kafkaMocks "tourdesk/infras/kafka/mocks"
	metricsMocks "tourdesk/infras/metrics/mocks"
	"tourdesk/infras/otel/mocks"
	"tourdesk/internal/domains/period/model/dto"
	"tourdesk/internal/workers/wholesaler"
	syncerMocks "tourdesk/internal/workers/wholesaler/mocks"
	"tourdesk/shared/failure"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const wholesalerTopic = "wholesaler.periods"

type fixture struct {
	consumer wholesaler.Consumer
	syncer   *syncerMocks.MockPeriodSyncer
	kafka    *kafkaMocks.MockClient
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Kafka.ConsumerGroup = "tourdesk"
	cfg.Kafka.Topics.WholesalerPeriods = wholesalerTopic

	f := &fixture{
		syncer: syncerMocks.NewMockPeriodSyncer(ctrl),
		kafka:  kafkaMocks.NewMockClient(ctrl),
	}

	f.consumer = wholesaler.New(f.syncer, f.kafka, cfg, mocks.NewOtel(), metricsMocks.NewMetrics())

	return f
}

func envelope(payload string) kafkaGo.Message {
	return kafkaGo.Message{
		Key:   []byte("WS-1"),
		Value: []byte(`{"type":"period.upsert","key":"WS-1","payload":` + payload + `}`),
	}
}

const validPayload = `{"external_id":"WS-1","tour_code":"jp-8d","start_date":"2026-11-02","capacity":30}`

func TestConsumer_Handle(t *testing.T) {
	t.Run("syncs a valid period", func(t *testing.T) {
		f := newFixture(t)

		f.syncer.EXPECT().
			Sync(gomock.Any(), dto.SyncPeriodRequest{
				ExternalID: "WS-1",
				TourCode:   "jp-8d",
				StartDate:  "2026-11-02",
				Capacity:   30,
			}).
			Return("period-1", nil)

		err := f.consumer.Handle(context.Background(), envelope(validPayload))
		require.NoError(t, err)
	})

	t.Run("accepts a bare payload", func(t *testing.T) {
		f := newFixture(t)

		f.syncer.EXPECT().Sync(gomock.Any(), gomock.Any()).Return("period-1", nil)

		err := f.consumer.Handle(context.Background(), kafkaGo.Message{Value: []byte(validPayload)})
		require.NoError(t, err)
	})

	t.Run("drops malformed json", func(t *testing.T) {
		f := newFixture(t)

		err := f.consumer.Handle(context.Background(), kafkaGo.Message{Value: []byte("{not json")})
		require.NoError(t, err)
	})

	t.Run("drops a period failing validation", func(t *testing.T) {
		f := newFixture(t)

		err := f.consumer.Handle(context.Background(), envelope(`{"external_id":"WS-1","start_date":"02/11/2026","capacity":0}`))
		require.NoError(t, err)
	})

	t.Run("drops a period rejected by the service", func(t *testing.T) {
		f := newFixture(t)

		f.syncer.EXPECT().
			Sync(gomock.Any(), gomock.Any()).
			Return("", failure.NotFound("tour"))

		err := f.consumer.Handle(context.Background(), envelope(validPayload))
		require.NoError(t, err)
	})

	t.Run("returns server errors for retry", func(t *testing.T) {
		f := newFixture(t)

		f.syncer.EXPECT().
			Sync(gomock.Any(), gomock.Any()).
			Return("", errors.New("connection reset"))

		err := f.consumer.Handle(context.Background(), envelope(validPayload))
		require.Error(t, err)
		assert.Equal(t, "connection reset", err.Error())
	})
}

func TestConsumer_Run(t *testing.T) {
	f := newFixture(t)

	f.kafka.EXPECT().
		Consume(gomock.Any(), "tourdesk", wholesalerTopic, gomock.Any()).
		Return(nil)

	require.NoError(t, f.consumer.Run(context.Background()))
}
