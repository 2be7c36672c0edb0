package worker

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/docking-planner/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BaseWorker - общее состояние воркера одного стрима: имя consumer'а в группе,
// сигнал остановки и логгер с полями стрима
type BaseWorker struct {
	name          string
	stream        string
	consumerGroup string
	consumerName  string
	logger        *zap.Logger

	mu       sync.Mutex
	stopChan chan struct{}
	stopped  bool
}

// NewBaseWorker создает BaseWorker. Consumer называется hostname-pid, чтобы
// несколько процессов делили одну группу.
func NewBaseWorker(name, stream, consumerGroup string, logger *zap.Logger) *BaseWorker {
	hostname, _ := os.Hostname()
	consumerName := fmt.Sprintf("%s-%d", hostname, os.Getpid())

	return &BaseWorker{
		name:          name,
		stream:        stream,
		consumerGroup: consumerGroup,
		consumerName:  consumerName,
		logger: logger.With(
			zap.String("worker", name),
			zap.String("stream", stream),
			zap.String("consumer_group", consumerGroup),
		),
		stopChan: make(chan struct{}),
	}
}

func (w *BaseWorker) Name() string {
	return w.name
}

func (w *BaseWorker) Stream() string {
	return w.stream
}

func (w *BaseWorker) ConsumerGroup() string {
	return w.consumerGroup
}

func (w *BaseWorker) ConsumerName() string {
	return w.consumerName
}

// Stop сигнализирует о завершении; повторный вызов ничего не делает
func (w *BaseWorker) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}

	w.logger.Info("Stopping worker")
	close(w.stopChan)
	w.stopped = true

	return nil
}

func (w *BaseWorker) IsStopped() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stopped
}

func (w *BaseWorker) StopChan() <-chan struct{} {
	return w.stopChan
}

// StopContext возвращает ctx, который отменяется по Stop или вместе с parent.
// Им ограничивается чтение стрима, а не обработка уже полученного сообщения.
func (w *BaseWorker) StopContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	go func() {
		select {
		case <-w.stopChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

func (w *BaseWorker) Logger() *zap.Logger {
	return w.logger
}

// RunLogger - логгер одного запуска пайплайна
func (w *BaseWorker) RunLogger(runID uuid.UUID, stage domain.Stage) *zap.Logger {
	return w.logger.With(
		zap.String("run_id", runID.String()),
		zap.String("stage", string(stage)),
	)
}
