package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"camping-admin/middleware"
	"camping-admin/models"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

func InitProducer(brokers []string, logger *zap.Logger) (sarama.SyncProducer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Info("Kafka producer initialized", zap.Strings("brokers", brokers))
	return producer, nil
}

// Publisher sends notification events to one topic, keyed by admin id so an
// admin's events stay ordered.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *zap.Logger
}

func NewPublisher(producer sarama.SyncProducer, topic string, logger *zap.Logger) *Publisher {
	return &Publisher{producer: producer, topic: topic, logger: logger}
}

func (p *Publisher) PublishNotificationEvent(ctx context.Context, event models.NotificationEvent) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(fmt.Sprintf("admin-%d", event.AdminID)),
		Value: sarama.ByteEncoder(eventJSON),
	}

	carrier := make(headerCarrier, 0)
	otel.GetTextMapPropagator().Inject(ctx, &carrier)
	msg.Headers = []sarama.RecordHeader(carrier)

	partition, offset, err := p.producer.SendMessage(msg)
	middleware.RecordNotificationPublished(err == nil)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	p.logger.Info("Notification event published",
		zap.String("trace_id", middleware.GetTraceID(ctx)),
		zap.String("topic", p.topic),
		zap.String("event_type", event.EventType),
		zap.Int("notification_id", event.NotificationID),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
	)
	return nil
}

func (p *Publisher) Close() error {
	return p.producer.Close()
}

// headerCarrier adapts Kafka record headers to propagation.TextMapCarrier.
type headerCarrier []sarama.RecordHeader

func (c headerCarrier) Get(key string) string {
	for _, h := range c {
		if string(h.Key) == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c *headerCarrier) Set(key, value string) {
	*c = append(*c, sarama.RecordHeader{
		Key:   []byte(key),
		Value: []byte(value),
	})
}

func (c headerCarrier) Keys() []string {
	keys := make([]string, len(c))
	for i, h := range c {
		keys[i] = string(h.Key)
	}
	return keys
}
