package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/docking-planner/internal/config"
	"github.com/docking-planner/internal/domain"
	"github.com/docking-planner/internal/domain/repository"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageWriter is the part of kafka.Writer the publisher needs; tests mock it.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher пишет итоги запусков в Kafka-топик
type Publisher struct {
	writer MessageWriter
	topic  string
	logger *zap.Logger
}

var _ repository.EventPublisher = (*Publisher)(nil)

// NewPublisher создает publisher для KAFKA_BROKERS / KAFKA_TOPIC
func NewPublisher(cfg *config.KafkaConfig, logger *zap.Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return NewPublisherWithWriter(writer, cfg.Topic, logger)
}

// NewPublisherWithWriter wraps an existing writer.
func NewPublisherWithWriter(writer MessageWriter, topic string, logger *zap.Logger) *Publisher {
	return &Publisher{
		writer: writer,
		topic:  topic,
		logger: logger,
	}
}

// PublishDone пишет событие с ключом run_id, чтобы события одного запуска шли в одну партицию
func (p *Publisher) PublishDone(ctx context.Context, event *domain.PipelineDoneEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal done event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.RunID.String()),
		Value: value,
		Time:  time.Now().UTC(),
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to write done event to kafka",
			zap.String("topic", p.topic),
			zap.String("run_id", event.RunID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to write kafka message: %w", err)
	}

	p.logger.Debug("Done event written to kafka",
		zap.String("topic", p.topic),
		zap.String("run_id", event.RunID.String()))
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
