package kafka

import (
	"context"
	"log/slog"
	"time"

	"tour-checkout/internal/infra"
	"tour-checkout/internal/pkg/config"

	"github.com/segmentio/kafka-go"
)

// Producer publishes outbox payloads. Topic is set per message, so the writer
// itself is topic-less.
type Producer struct {
	brokers []string
	writer  *kafka.Writer
}

func NewProducer(cfg config.KafkaConfig) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           50 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return &Producer{brokers: cfg.Brokers, writer: writer}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, value []byte) error {
	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return infra.NewError(infra.KindUnavailable, "failed to write message to kafka", err)
	}

	slog.Debug("published event", slog.String("topic", topic), slog.String("key", key))
	return nil
}

// CheckConnection dials the first broker; used by the worker at startup.
func (p *Producer) CheckConnection(ctx context.Context) error {
	if len(p.brokers) == 0 {
		return infra.NewError(infra.KindUnavailable, "no kafka brokers configured", nil)
	}
	conn, err := kafka.DialContext(ctx, "tcp", p.brokers[0])
	if err != nil {
		return infra.NewError(infra.KindUnavailable, "failed to connect to kafka", err)
	}
	return conn.Close()
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
