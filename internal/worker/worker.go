package worker

import (
	"context"
)

// Worker - долгоживущий потребитель стрима под управлением WorkerManager
type Worker interface {
	// Start блокируется до Stop или отмены ctx
	Start(ctx context.Context) error

	// Stop только сигнализирует; завершения ждёт WorkerManager
	Stop() error

	Name() string
}
