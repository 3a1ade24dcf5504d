package kafka

//go:generate go run go.uber.org/mock/mockgen -source=./kafka.go -destination=./mocks/kafka_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"tourdesk/config"
	"tourdesk/infras/otel"
	"tourdesk/shared/constant"
	"tourdesk/shared/timezone"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

const (
	writerBatchTimeout = 50 * time.Millisecond
	readerMaxWait      = time.Second
	retryBackoff       = 2 * time.Second
	maxAttempts        = 3
)

// Message is the envelope written to every topic.
type Message struct {
	Type       string    `json:"type"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

func NewMessage(eventType, key string, payload any) Message {
	return Message{
		Type:       eventType,
		Key:        key,
		OccurredAt: timezone.Now(),
		Payload:    payload,
	}
}

func (m *Message) ToKafkaMessage() (kafkaGo.Message, error) {
	jsonValue, err := json.Marshal(m)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal message value to JSON")

		return kafkaGo.Message{}, fmt.Errorf("failed to marshal message value to JSON: %w", err)
	}

	message := kafkaGo.Message{
		Key:   []byte(m.Key),
		Value: jsonValue,
		Headers: []kafkaGo.Header{
			{Key: "type", Value: []byte(m.Type)},
		},
	}

	return message, nil
}

// DecodeKafkaMessage decodes the payload of an envelope into T. Messages
// produced without an envelope are decoded as a bare T.
func DecodeKafkaMessage[T any](msg kafkaGo.Message) (eventType string, payload T, err error) {
	var envelope struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}

	if err = json.Unmarshal(msg.Value, &envelope); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal Kafka message value from JSON")

		return "", payload, fmt.Errorf("failed to unmarshal Kafka message value from JSON: %w", err)
	}

	raw := []byte(envelope.Payload)
	if len(raw) == 0 {
		raw = msg.Value
	}

	if err = json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal Kafka message payload from JSON")

		return "", payload, fmt.Errorf("failed to unmarshal Kafka message payload from JSON: %w", err)
	}

	return envelope.Type, payload, nil
}

// Handler processes one message. A nil return commits the offset.
type Handler func(ctx context.Context, message kafkaGo.Message) error

type Client interface {
	SendMessages(ctx context.Context, topic string, messages ...Message) (err error)
	Consume(ctx context.Context, consumerGroup, topic string, handler Handler) error
	Close() error
}

type kafkaClientImpl struct {
	config    *config.Config
	otel      otel.Otel
	dialer    *kafkaGo.Dialer
	transport *kafkaGo.Transport
	address   net.Addr

	mu      sync.Mutex
	writers map[string]*kafkaGo.Writer
}

func New(config *config.Config, otel otel.Otel) Client {
	dialer := &kafkaGo.Dialer{
		Timeout:   10 * time.Second, //nolint:mnd
		DualStack: true,
	}

	transport := &kafkaGo.Transport{}

	if config.Kafka.SASL.Username != "" {
		mechanism := plain.Mechanism{
			Username: config.Kafka.SASL.Username,
			Password: config.Kafka.SASL.Password,
		}

		dialer.SASLMechanism = mechanism
		transport.SASL = mechanism
	}

	log.Info().Strs("brokers", config.Kafka.Brokers).Msg("Kafka client initialized")

	return &kafkaClientImpl{
		config:    config,
		otel:      otel,
		dialer:    dialer,
		transport: transport,
		address:   kafkaGo.TCP(config.Kafka.Brokers...),
		writers:   make(map[string]*kafkaGo.Writer),
	}
}

func (k *kafkaClientImpl) writer(topic string) *kafkaGo.Writer {
	k.mu.Lock()
	defer k.mu.Unlock()

	if writer, ok := k.writers[topic]; ok {
		return writer
	}

	writer := &kafkaGo.Writer{
		Addr:                   k.address,
		Topic:                  topic,
		Transport:              k.transport,
		Balancer:               &kafkaGo.Hash{},
		RequiredAcks:           kafkaGo.RequireAll,
		BatchTimeout:           writerBatchTimeout,
		AllowAutoTopicCreation: true,
	}

	k.writers[topic] = writer

	return writer
}

func (k *kafkaClientImpl) reader(consumerGroup, topic string) *kafkaGo.Reader {
	groupID := k.config.Kafka.ConsumerGroup
	if consumerGroup != "" {
		groupID = consumerGroup
	}

	return kafkaGo.NewReader(kafkaGo.ReaderConfig{
		Brokers:     k.config.Kafka.Brokers,
		Topic:       topic,
		GroupID:     groupID,
		Dialer:      k.dialer,
		StartOffset: kafkaGo.FirstOffset,
		MaxWait:     readerMaxWait,
	})
}

func (k *kafkaClientImpl) SendMessages(ctx context.Context, topic string, messages ...Message) (err error) {
	ctx, scope := k.otel.NewScope(ctx, constant.OtelKafkaScopeName, constant.OtelKafkaScopeName+".SendMessages")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{
		"topic":    topic,
		"messages": len(messages),
	})

	if len(messages) == 0 {
		return nil
	}

	msgs := make([]kafkaGo.Message, 0, len(messages))

	for _, message := range messages {
		msg, err := message.ToKafkaMessage()
		if err != nil {
			log.Error().Err(err).Str("topic", topic).Msg("Failed to convert message to Kafka message.")

			return fmt.Errorf("failed to convert message to Kafka message: %w", err)
		}

		msgs = append(msgs, msg)
	}

	err = k.writer(topic).WriteMessages(ctx, msgs...)
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to send message to Kafka.")

		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	log.Debug().Str("topic", topic).Int("count", len(msgs)).Msg("Sent message successfully.")

	return nil
}

// Consume blocks until ctx is cancelled. A failing message is retried
// maxAttempts times before its offset is committed and it is dropped.
func (k *kafkaClientImpl) Consume(ctx context.Context, consumerGroup, topic string, handler Handler) error {
	if topic == "" {
		return errors.New("topic name cannot be empty when creating Kafka reader")
	}

	reader := k.reader(consumerGroup, topic)

	defer func() {
		if err := reader.Close(); err != nil {
			log.Error().Err(err).Str("topic", topic).Msg("Failed to close Kafka reader.")
		}
	}()

	log.Info().Str("topic", topic).Msg("Kafka consumer started.")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info().Str("topic", topic).Msg("Consumer context done.")

				return nil
			}

			log.Error().Err(err).Str("topic", topic).Msg("Failed to read message from Kafka.")

			continue
		}

		log.Debug().
			Str("topic", topic).
			Str("key", string(msg.Key)).
			Int64("offset", msg.Offset).
			Msg("Received message from Kafka.")

		if err = k.handle(ctx, topic, msg, handler); err != nil {
			return nil
		}

		if err = reader.CommitMessages(ctx, msg); err != nil {
			log.Error().Err(err).Str("topic", topic).Msg("Failed to commit Kafka message.")
		}
	}
}

// handle only returns an error when ctx is cancelled mid retry.
func (k *kafkaClientImpl) handle(ctx context.Context, topic string, msg kafkaGo.Message, handler Handler) error {
	for attempt := 1; ; attempt++ {
		err := handler(ctx, msg)
		if err == nil {
			return nil
		}

		log.Error().
			Err(err).
			Str("topic", topic).
			Int64("offset", msg.Offset).
			Int("attempt", attempt).
			Msg("Failed to handle Kafka message.")

		if attempt >= maxAttempts {
			log.Warn().Str("topic", topic).Int64("offset", msg.Offset).Msg("Dropping Kafka message after retries.")

			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryBackoff):
		}
	}
}

func (k *kafkaClientImpl) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	var errs []error

	for topic, writer := range k.writers {
		if err := writer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close writer for %s: %w", topic, err))
		}

		delete(k.writers, topic)
	}

	return errors.Join(errs...)
}
