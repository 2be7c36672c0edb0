package redis

import (
	"context"

	"github.com/docking-planner/internal/domain"
	"github.com/docking-planner/internal/domain/repository"
)

type donePublisher struct {
	streams repository.StreamRepository
}

// NewDonePublisher публикует итоги запусков в stream:pipeline:done
func NewDonePublisher(streams repository.StreamRepository) repository.EventPublisher {
	return &donePublisher{streams: streams}
}

func (p *donePublisher) PublishDone(ctx context.Context, event *domain.PipelineDoneEvent) error {
	return p.streams.PublishToStream(ctx, domain.StreamPipelineDone, event)
}
