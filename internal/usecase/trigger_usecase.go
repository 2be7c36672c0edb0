package usecase

import (
	"context"
	"time"

	"github.com/docking-planner/internal/domain"
	"github.com/docking-planner/internal/domain/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TriggerUseCase ставит запуск пайплайна в очередь (Redis Stream)
type TriggerUseCase struct {
	streamRepo repository.StreamRepository
	logger     *zap.Logger
}

// NewTriggerUseCase создает новый TriggerUseCase
func NewTriggerUseCase(streamRepo repository.StreamRepository, logger *zap.Logger) *TriggerUseCase {
	return &TriggerUseCase{
		streamRepo: streamRepo,
		logger:     logger,
	}
}

// RequestRun publishes a run trigger and returns it.
func (uc *TriggerUseCase) RequestRun(ctx context.Context, stage domain.Stage) (*domain.PipelineRunEvent, error) {
	event := &domain.PipelineRunEvent{
		RunID:       uuid.New(),
		Stage:       stage,
		RequestedAt: time.Now().UTC(),
	}

	if err := uc.streamRepo.PublishToStream(ctx, domain.StreamPipelineRun, event); err != nil {
		return nil, err
	}

	uc.logger.Info("Pipeline run requested",
		zap.String("run_id", event.RunID.String()),
		zap.String("stage", string(stage)))

	return event, nil
}
