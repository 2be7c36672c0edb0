package repository

import (
	"context"

	"github.com/docking-planner/internal/domain"
)

// EventPublisher announces finished pipeline runs.
type EventPublisher interface {
	PublishDone(ctx context.Context, event *domain.PipelineDoneEvent) error
}
