package domain

import (
	"time"

	"github.com/google/uuid"
)

// Stream names
const (
	StreamPipelineRun  = "stream:pipeline:run"
	StreamPipelineDone = "stream:pipeline:done"
)

// PipelineRunEvent - входящее событие на запуск пайплайна
type PipelineRunEvent struct {
	RunID       uuid.UUID `json:"run_id"`
	Stage       Stage     `json:"stage"`
	RequestedAt time.Time `json:"requested_at"`
}

// PipelineDoneEvent - результат запуска пайплайна
type PipelineDoneEvent struct {
	RunID   uuid.UUID   `json:"run_id"`
	Summary *RunSummary `json:"summary,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Succeeded reports whether the run finished without error.
func (e *PipelineDoneEvent) Succeeded() bool {
	return e.Error == "" && e.Summary != nil
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
