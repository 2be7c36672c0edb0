package testhelpers

import (
	"context"

	"github.com/docking-planner/internal/domain/repository"
	"github.com/docking-planner/internal/repository/postgres"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// NewDBForTest creates a postgres.DB with test database and logger
func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.NewDBForTest(db, logger)
}

// Migrate applies the embedded schema to the test database.
func Migrate(ctx context.Context, db *sqlx.DB, logger *zap.Logger) error {
	return NewDBForTest(db, logger).Migrate(ctx)
}

// NewNodeRepositoryForTest creates a node repository with test database and logger
func NewNodeRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.NodeRepository {
	return postgres.NewNodeRepository(NewDBForTest(db, logger))
}
