package repository

import (
	"context"

	"github.com/docking-planner/internal/domain"
	"github.com/google/uuid"
)

// NodeRepository хранит датасеты кандидатов по запускам пайплайна
type NodeRepository interface {
	// SaveRun заменяет сохранённый датасет результатом запуска runID
	SaveRun(ctx context.Context, runID uuid.UUID, nodes []domain.Node) error

	// LatestRunID возвращает id последнего сохранённого запуска
	LatestRunID(ctx context.Context) (uuid.UUID, error)

	// GetByRun возвращает датасет запуска в порядке записи
	GetByRun(ctx context.Context, runID uuid.UUID) ([]domain.Node, error)
}
