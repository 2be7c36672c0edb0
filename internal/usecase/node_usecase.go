package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/docking-planner/internal/domain"
	"github.com/docking-planner/internal/domain/repository"
	apperrors "github.com/docking-planner/internal/pkg/errors"
	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"
)

// NodeUseCase отдаёт последний опубликованный датасет кандидатов в GeoJSON
type NodeUseCase struct {
	nodeRepo  repository.NodeRepository
	cacheRepo repository.CacheRepository
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// NewNodeUseCase создает новый NodeUseCase. cacheRepo may be nil.
func NewNodeUseCase(
	nodeRepo repository.NodeRepository,
	cacheRepo repository.CacheRepository,
	logger *zap.Logger,
	cacheTTL time.Duration,
) *NodeUseCase {
	return &NodeUseCase{
		nodeRepo:  nodeRepo,
		cacheRepo: cacheRepo,
		logger:    logger,
		cacheTTL:  cacheTTL,
	}
}

func nodesCacheKey(runID uuid.UUID) string {
	return fmt.Sprintf("nodes:geojson:%s", runID)
}

// GetLatestGeoJSON returns the latest run's dataset as an encoded
// FeatureCollection. The cache is keyed by run id, so a new run is visible
// as soon as it is saved.
func (uc *NodeUseCase) GetLatestGeoJSON(ctx context.Context) ([]byte, error) {
	runID, err := uc.nodeRepo.LatestRunID(ctx)
	if err != nil {
		return nil, err
	}

	key := nodesCacheKey(runID)
	if uc.cacheRepo != nil {
		cached, err := uc.cacheRepo.Get(ctx, key)
		if err != nil {
			uc.logger.Warn("Nodes cache read failed", zap.Error(err))
		} else if cached != nil {
			uc.logger.Debug("Nodes cache hit", zap.String("run_id", runID.String()))
			return cached, nil
		}
	}

	nodes, err := uc.nodeRepo.GetByRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, apperrors.ErrNodesNotFound
	}

	data, err := json.Marshal(NodesToFeatureCollection(runID, nodes))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal geojson: %w", err)
	}

	if uc.cacheRepo != nil {
		if err := uc.cacheRepo.Set(ctx, key, data, uc.cacheTTL); err != nil {
			uc.logger.Warn("Nodes cache write failed", zap.Error(err))
		}
	}

	return data, nil
}

// NodesToFeatureCollection converts a dataset into GeoJSON points in
// [lon, lat] order. Row order is kept.
func NodesToFeatureCollection(runID uuid.UUID, nodes []domain.Node) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	fc.ExtraMembers = geojson.Properties{"run_id": runID.String()}

	for _, n := range nodes {
		f := geojson.NewFeature(orb.Point(n.Coordinate().LonLat()))
		f.ID = n.ID
		f.Properties["id"] = n.ID
		f.Properties["name"] = n.Name
		f.Properties["potential"] = n.IsPotential()
		fc.Append(f)
	}
	return fc
}
