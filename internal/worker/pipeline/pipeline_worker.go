package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/docking-planner/internal/domain"
	"github.com/docking-planner/internal/domain/repository"
	"github.com/docking-planner/internal/worker"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Runner выполняет запуск пайплайна и публикует его итог
type Runner interface {
	Execute(ctx context.Context, event *domain.PipelineRunEvent) *domain.PipelineDoneEvent
}

// defaultClaimMinIdle - сколько сообщение должно провисеть в PEL, чтобы его забрал другой воркер
const defaultClaimMinIdle = 10 * time.Minute

// PipelineWorker обрабатывает события stream:pipeline:run по одному
type PipelineWorker struct {
	*worker.BaseWorker
	streamRepo   repository.StreamRepository
	runner       Runner
	claimMinIdle time.Duration
}

// NewPipelineWorker создает новый PipelineWorker
func NewPipelineWorker(
	streamRepo repository.StreamRepository,
	runner Runner,
	consumerGroup string,
	logger *zap.Logger,
) *PipelineWorker {
	return &PipelineWorker{
		BaseWorker:   worker.NewBaseWorker("pipeline-runner", domain.StreamPipelineRun, consumerGroup, logger),
		streamRepo:   streamRepo,
		runner:       runner,
		claimMinIdle: defaultClaimMinIdle,
	}
}

// WithClaimMinIdle задаёт порог для зависших сообщений; d <= 0 оставляет значение по умолчанию
func (w *PipelineWorker) WithClaimMinIdle(d time.Duration) *PipelineWorker {
	if d > 0 {
		w.claimMinIdle = d
	}
	return w
}

// Start сначала дорабатывает зависшие сообщения группы, затем читает стрим
// до Stop или отмены ctx. Текущий запуск доводится до конца.
func (w *PipelineWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting PipelineWorker",
		zap.String("consumer_name", w.ConsumerName()),
		zap.Duration("claim_min_idle", w.claimMinIdle))

	if err := w.streamRepo.CreateConsumerGroup(ctx, w.Stream(), w.ConsumerGroup()); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	consumeCtx, cancel := w.StopContext(ctx)
	defer cancel()

	w.recoverPending(consumeCtx, ctx)

	messages, err := w.streamRepo.ConsumeStream(consumeCtx, w.Stream(), w.ConsumerGroup(), w.ConsumerName())
	if err != nil {
		return fmt.Errorf("failed to consume stream: %w", err)
	}

	for msg := range messages {
		w.handle(ctx, msg)
	}

	logger.Info("PipelineWorker stopped")
	return nil
}

// recoverPending забирает сообщения, прочитанные, но не подтверждённые
// упавшим или остановленным воркером. Ошибка не мешает читать новые.
func (w *PipelineWorker) recoverPending(consumeCtx, ctx context.Context) {
	claimed, err := w.streamRepo.ClaimPending(consumeCtx, w.Stream(), w.ConsumerGroup(), w.ConsumerName(), w.claimMinIdle)
	if err != nil {
		w.Logger().Warn("Failed to claim pending messages", zap.Error(err))
		return
	}

	for _, msg := range claimed {
		if consumeCtx.Err() != nil {
			return
		}
		w.Logger().Info("Recovering pending message", zap.String("message_id", msg.ID))
		w.handle(ctx, msg)
	}
}

func (w *PipelineWorker) handle(ctx context.Context, msg domain.StreamMessage) {
	event, err := parseRunEvent(msg)
	if err != nil {
		w.Logger().Warn("Failed to parse message, skipping",
			zap.String("message_id", msg.ID),
			zap.Error(err))
		// ACK битое сообщение чтобы не застревало
		w.ack(ctx, msg.ID)
		return
	}

	logger := w.RunLogger(event.RunID, event.Stage)
	logger.Info("Pipeline run received", zap.String("message_id", msg.ID))

	done := w.runner.Execute(ctx, event)

	if done.Succeeded() {
		logger.Info("Pipeline run processed", zap.String("message_id", msg.ID))
	} else {
		logger.Warn("Pipeline run failed",
			zap.String("message_id", msg.ID),
			zap.String("error", done.Error))
	}

	w.ack(ctx, msg.ID)
}

func (w *PipelineWorker) ack(ctx context.Context, id string) {
	if err := w.streamRepo.AckMessage(ctx, w.Stream(), w.ConsumerGroup(), id); err != nil {
		w.Logger().Error("Failed to ack message",
			zap.String("message_id", id),
			zap.Error(err))
	}
}

func parseRunEvent(msg domain.StreamMessage) (*domain.PipelineRunEvent, error) {
	var event domain.PipelineRunEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		return nil, fmt.Errorf("unmarshal run event: %w", err)
	}

	stage, err := domain.ParseStage(string(event.Stage))
	if err != nil {
		return nil, err
	}
	event.Stage = stage

	if event.RunID == uuid.Nil {
		event.RunID = uuid.New()
	}

	return &event, nil
}
