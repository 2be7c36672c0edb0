package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/docking-planner/internal/domain"
	apperrors "github.com/docking-planner/internal/pkg/errors"
	"github.com/docking-planner/internal/usecase"
)

func sampleNodes() []domain.Node {
	return []domain.Node{
		{Lat: 51.5, Lon: -0.1, ID: "potential_0", Name: "Potential Node"},
		{Lat: 51.529163, Lon: -0.10997, ID: "BikePoints_1", Name: "River Street, Clerkenwell"},
	}
}

func TestNodesToFeatureCollection(t *testing.T) {
	runID := uuid.New()

	fc := usecase.NodesToFeatureCollection(runID, sampleNodes())

	require.Len(t, fc.Features, 2)
	assert.Equal(t, runID.String(), fc.ExtraMembers["run_id"])

	first := fc.Features[0]
	assert.Equal(t, orb.Point{-0.1, 51.5}, first.Geometry)
	assert.Equal(t, "potential_0", first.ID)
	assert.Equal(t, true, first.Properties["potential"])

	second := fc.Features[1]
	assert.Equal(t, orb.Point{-0.10997, 51.529163}, second.Geometry)
	assert.Equal(t, "River Street, Clerkenwell", second.Properties["name"])
	assert.Equal(t, false, second.Properties["potential"])
}

func TestNodeUseCase_GetLatestGeoJSON(t *testing.T) {
	ctx := context.Background()
	runID := uuid.New()
	key := "nodes:geojson:" + runID.String()

	t.Run("cache miss loads and caches", func(t *testing.T) {
		repo := &MockNodeRepository{}
		cache := &MockCacheRepository{}

		repo.On("LatestRunID", mock.Anything).Return(runID, nil)
		repo.On("GetByRun", mock.Anything, runID).Return(sampleNodes(), nil)
		cache.On("Get", mock.Anything, key).Return(nil, nil)
		cache.On("Set", mock.Anything, key, mock.Anything, 5*time.Minute).Return(nil)

		uc := usecase.NewNodeUseCase(repo, cache, zap.NewNop(), 5*time.Minute)
		data, err := uc.GetLatestGeoJSON(ctx)

		require.NoError(t, err)
		fc, err := geojson.UnmarshalFeatureCollection(data)
		require.NoError(t, err)
		assert.Len(t, fc.Features, 2)
		assert.Equal(t, orb.Point{-0.1, 51.5}, fc.Features[0].Geometry)

		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("cache hit skips database", func(t *testing.T) {
		repo := &MockNodeRepository{}
		cache := &MockCacheRepository{}
		cached := []byte(`{"type":"FeatureCollection","features":[]}`)

		repo.On("LatestRunID", mock.Anything).Return(runID, nil)
		cache.On("Get", mock.Anything, key).Return(cached, nil)

		uc := usecase.NewNodeUseCase(repo, cache, zap.NewNop(), time.Minute)
		data, err := uc.GetLatestGeoJSON(ctx)

		require.NoError(t, err)
		assert.Equal(t, cached, data)
		repo.AssertNotCalled(t, "GetByRun", mock.Anything, mock.Anything)
	})

	t.Run("works without cache", func(t *testing.T) {
		repo := &MockNodeRepository{}
		repo.On("LatestRunID", mock.Anything).Return(runID, nil)
		repo.On("GetByRun", mock.Anything, runID).Return(sampleNodes(), nil)

		uc := usecase.NewNodeUseCase(repo, nil, zap.NewNop(), time.Minute)
		data, err := uc.GetLatestGeoJSON(ctx)

		require.NoError(t, err)
		assert.Contains(t, string(data), `"run_id":"`+runID.String()+`"`)
	})

	t.Run("no runs yet", func(t *testing.T) {
		repo := &MockNodeRepository{}
		repo.On("LatestRunID", mock.Anything).Return(uuid.Nil, apperrors.ErrNodesNotFound)

		uc := usecase.NewNodeUseCase(repo, nil, zap.NewNop(), time.Minute)
		_, err := uc.GetLatestGeoJSON(ctx)

		assert.ErrorIs(t, err, apperrors.ErrNodesNotFound)
	})

	t.Run("empty run", func(t *testing.T) {
		repo := &MockNodeRepository{}
		repo.On("LatestRunID", mock.Anything).Return(runID, nil)
		repo.On("GetByRun", mock.Anything, runID).Return([]domain.Node{}, nil)

		uc := usecase.NewNodeUseCase(repo, nil, zap.NewNop(), time.Minute)
		_, err := uc.GetLatestGeoJSON(ctx)

		assert.ErrorIs(t, err, apperrors.ErrNodesNotFound)
	})
}
