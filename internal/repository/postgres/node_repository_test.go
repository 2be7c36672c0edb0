package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/docking-planner/internal/domain"
	"github.com/docking-planner/internal/domain/repository"
	apperrors "github.com/docking-planner/internal/pkg/errors"
	"github.com/docking-planner/internal/repository/postgres/testhelpers"
)

// NodeRepositoryTestSuite тестирует NodeRepository на реальной БД
type NodeRepositoryTestSuite struct {
	suite.Suite
	testDB *testhelpers.TestDB
	repo   repository.NodeRepository
	ctx    context.Context
}

func (s *NodeRepositoryTestSuite) SetupSuite() {
	s.ctx = context.Background()
	s.testDB = testhelpers.SetupTestDB(s.T())

	err := testhelpers.Migrate(s.ctx, s.testDB.DB, s.testDB.Logger)
	s.Require().NoError(err, "Failed to apply migrations")

	s.repo = testhelpers.NewNodeRepositoryForTest(s.testDB.DB, s.testDB.Logger)
}

func (s *NodeRepositoryTestSuite) TearDownSuite() {
	if s.testDB != nil {
		s.testDB.Close()
	}
}

func (s *NodeRepositoryTestSuite) SetupTest() {
	s.Require().NoError(s.testDB.Cleanup(s.ctx))
}

func (s *NodeRepositoryTestSuite) TestLatestRunID_Empty() {
	_, err := s.repo.LatestRunID(s.ctx)
	s.True(errors.Is(err, apperrors.ErrNodesNotFound))
}

func (s *NodeRepositoryTestSuite) TestSaveRun_KeepsOrder() {
	runID := uuid.New()
	nodes := []domain.Node{
		{Lat: 51.5, Lon: -0.1, ID: "potential_0", Name: "Potential Node"},
		{Lat: 51.49, Lon: -0.09, ID: "BikePoints_3", Name: "C"},
		{Lat: 51.51, Lon: -0.12, ID: "BikePoints_1", Name: "A, with comma"},
	}

	s.Require().NoError(s.repo.SaveRun(s.ctx, runID, nodes))

	latest, err := s.repo.LatestRunID(s.ctx)
	s.Require().NoError(err)
	s.Equal(runID, latest)

	got, err := s.repo.GetByRun(s.ctx, runID)
	s.Require().NoError(err)
	s.Equal(nodes, got)
}

func (s *NodeRepositoryTestSuite) TestSaveRun_ReplacesPreviousRun() {
	first := uuid.New()
	second := uuid.New()

	s.Require().NoError(s.repo.SaveRun(s.ctx, first, []domain.Node{
		{Lat: 1, Lon: 1, ID: "S1", Name: "old"},
	}))
	s.Require().NoError(s.repo.SaveRun(s.ctx, second, []domain.Node{
		{Lat: 2, Lon: 2, ID: "S1", Name: "new"},
	}))

	latest, err := s.repo.LatestRunID(s.ctx)
	s.Require().NoError(err)
	s.Equal(second, latest)

	old, err := s.repo.GetByRun(s.ctx, first)
	s.Require().NoError(err)
	s.Empty(old)
}

func TestNodeRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(NodeRepositoryTestSuite))
}
