package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/docking-planner/internal/domain"
	"github.com/docking-planner/internal/domain/repository"
	apperrors "github.com/docking-planner/internal/pkg/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type nodeRepository struct {
	db     *DB
	logger *zap.Logger
}

// candidateNodeRow - строка таблицы candidate_nodes
type candidateNodeRow struct {
	RunID       uuid.UUID `db:"run_id"`
	Position    int       `db:"position"`
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Lat         float64   `db:"lat"`
	Lon         float64   `db:"lon"`
	IsPotential bool      `db:"is_potential"`
	CreatedAt   time.Time `db:"created_at"`
}

// NewNodeRepository создает новый экземпляр node repository
func NewNodeRepository(db *DB) repository.NodeRepository {
	return &nodeRepository{
		db:     db,
		logger: db.logger,
	}
}

// SaveRun заменяет датасет одной транзакцией: старые запуски удаляются,
// строки нового пишутся с сохранением порядка (position).
func (r *nodeRepository) SaveRun(ctx context.Context, runID uuid.UUID, nodes []domain.Node) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.ErrDatabaseError.Wrap(fmt.Errorf("begin tx: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM candidate_nodes WHERE run_id <> $1`, runID); err != nil {
		return apperrors.ErrDatabaseError.Wrap(fmt.Errorf("delete previous runs: %w", err))
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM candidate_nodes WHERE run_id = $1`, runID); err != nil {
		return apperrors.ErrDatabaseError.Wrap(fmt.Errorf("delete run rows: %w", err))
	}

	if len(nodes) > 0 {
		now := time.Now().UTC()
		rows := make([]candidateNodeRow, len(nodes))
		for i, n := range nodes {
			rows[i] = candidateNodeRow{
				RunID:       runID,
				Position:    i,
				ID:          n.ID,
				Name:        n.Name,
				Lat:         n.Lat,
				Lon:         n.Lon,
				IsPotential: n.IsPotential(),
				CreatedAt:   now,
			}
		}

		query := `
			INSERT INTO candidate_nodes (run_id, position, id, name, lat, lon, is_potential, created_at)
			VALUES (:run_id, :position, :id, :name, :lat, :lon, :is_potential, :created_at)
		`
		if _, err := tx.NamedExecContext(ctx, query, rows); err != nil {
			return apperrors.ErrDatabaseError.Wrap(fmt.Errorf("insert nodes: %w", err))
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.ErrDatabaseError.Wrap(fmt.Errorf("commit: %w", err))
	}

	r.logger.Info("Candidate nodes saved",
		zap.String("run_id", runID.String()),
		zap.Int("nodes", len(nodes)))
	return nil
}

// LatestRunID возвращает ErrNodesNotFound, если ни один запуск не сохранён
func (r *nodeRepository) LatestRunID(ctx context.Context) (uuid.UUID, error) {
	var runID uuid.UUID
	err := r.db.GetContext(ctx, &runID, `
		SELECT run_id FROM candidate_nodes
		ORDER BY created_at DESC
		LIMIT 1
	`)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, apperrors.ErrNodesNotFound
	}
	if err != nil {
		r.logger.Error("failed to get latest run", zap.Error(err))
		return uuid.Nil, apperrors.ErrDatabaseError.Wrap(err)
	}
	return runID, nil
}

func (r *nodeRepository) GetByRun(ctx context.Context, runID uuid.UUID) ([]domain.Node, error) {
	var nodes []domain.Node
	err := r.db.SelectContext(ctx, &nodes, `
		SELECT lat, lon, id, name FROM candidate_nodes
		WHERE run_id = $1
		ORDER BY position
	`, runID)
	if err != nil {
		r.logger.Error("failed to get nodes by run",
			zap.String("run_id", runID.String()),
			zap.Error(err))
		return nil, apperrors.ErrDatabaseError.Wrap(err)
	}
	return nodes, nil
}
