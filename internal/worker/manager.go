package worker

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// defaultShutdownTimeout - сколько ждать воркеры, если не задано иное.
// Запуск пайплайна прерывать нельзя, поэтому таймаут больше обычного.
const defaultShutdownTimeout = 2 * time.Minute

// WorkerManager запускает воркеры стримов и дожидается их при остановке
type WorkerManager struct {
	workers         []Worker
	logger          *zap.Logger
	shutdownTimeout time.Duration
	wg              sync.WaitGroup

	mu      sync.Mutex
	running map[string]struct{}
}

// NewWorkerManager создает новый WorkerManager; shutdownTimeout <= 0 означает значение по умолчанию
func NewWorkerManager(logger *zap.Logger, shutdownTimeout time.Duration) *WorkerManager {
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}
	return &WorkerManager{
		logger:          logger,
		shutdownTimeout: shutdownTimeout,
		running:         make(map[string]struct{}),
	}
}

func (m *WorkerManager) Register(w Worker) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.workers = append(m.workers, w)
	m.logger.Info("Worker registered", zap.String("name", w.Name()))
}

func (m *WorkerManager) snapshot() []Worker {
	m.mu.Lock()
	defer m.mu.Unlock()

	workers := make([]Worker, len(m.workers))
	copy(workers, m.workers)
	return workers
}

// Start запускает каждый воркер в своей горутине и сразу возвращается
func (m *WorkerManager) Start(ctx context.Context) error {
	workers := m.snapshot()
	if len(workers) == 0 {
		return fmt.Errorf("no workers registered")
	}

	m.logger.Info("Starting workers", zap.Int("count", len(workers)))

	for _, w := range workers {
		m.setRunning(w.Name(), true)
		m.wg.Add(1)

		go func(w Worker) {
			defer m.wg.Done()
			defer m.setRunning(w.Name(), false)

			if err := w.Start(ctx); err != nil {
				m.logger.Error("Worker failed",
					zap.String("name", w.Name()),
					zap.Error(err))
			}
		}(w)
	}

	return nil
}

// Running - имена воркеров, чей Start ещё не вернулся
func (m *WorkerManager) Running() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.running))
	for name := range m.running {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *WorkerManager) setRunning(name string, running bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if running {
		m.running[name] = struct{}{}
	} else {
		delete(m.running, name)
	}
}

// Stop останавливает все воркеры и ждёт их не дольше shutdownTimeout.
// В ошибке таймаута перечислены воркеры, которые так и не завершились.
func (m *WorkerManager) Stop() error {
	workers := m.snapshot()
	m.logger.Info("Stopping workers", zap.Int("count", len(workers)))

	for _, w := range workers {
		if err := w.Stop(); err != nil {
			m.logger.Error("Failed to stop worker",
				zap.String("name", w.Name()),
				zap.Error(err))
		}
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("All workers stopped gracefully")
		return nil
	case <-time.After(m.shutdownTimeout):
		stuck := m.Running()
		m.logger.Warn("Workers shutdown timed out, a pipeline run may have been cut short",
			zap.Duration("timeout", m.shutdownTimeout),
			zap.Strings("running", stuck))
		return fmt.Errorf("workers shutdown timed out after %v: still running [%s]",
			m.shutdownTimeout, strings.Join(stuck, ", "))
	}
}
