package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/docking-planner/internal/domain"
	"github.com/docking-planner/internal/domain/repository"
	"github.com/docking-planner/internal/pkg/utils"
	"go.uber.org/zap"
)

// SnapUseCase привязывает координаты кандидатов к ближайшему адресуемому
// объекту через Mapbox Geocoding. Ошибка по одной координате никогда не
// прерывает пакет: координата остаётся исходной.
type SnapUseCase struct {
	mapboxRepo  repository.MapboxRepository
	cacheRepo   repository.CacheRepository
	logger      *zap.Logger
	concurrency int
	precision   int
	cacheTTL    time.Duration
}

// NewSnapUseCase создает новый SnapUseCase. cacheRepo may be nil.
func NewSnapUseCase(
	mapboxRepo repository.MapboxRepository,
	cacheRepo repository.CacheRepository,
	logger *zap.Logger,
	concurrency int,
	precision int,
	cacheTTL time.Duration,
) *SnapUseCase {
	if concurrency < 1 {
		concurrency = 1
	}
	return &SnapUseCase{
		mapboxRepo:  mapboxRepo,
		cacheRepo:   cacheRepo,
		logger:      logger,
		concurrency: concurrency,
		precision:   precision,
		cacheTTL:    cacheTTL,
	}
}

// Snap returns the first geocoding feature for coord, or coord itself when the
// call fails or finds nothing. The bool reports whether the result was snapped.
func (uc *SnapUseCase) Snap(ctx context.Context, coord domain.Coordinate) (domain.Coordinate, bool) {
	key := RoundKey(coord, uc.precision)

	if uc.cacheRepo != nil {
		cached, err := uc.cacheRepo.GetSnapped(ctx, key)
		if err != nil {
			uc.logger.Warn("Snap cache read failed", zap.Error(err))
		} else if cached != nil {
			return *cached, true
		}
	}

	resp, err := uc.mapboxRepo.ReverseGeocode(ctx, coord)
	if err != nil {
		uc.logger.Warn("Error snapping coordinate, keeping original",
			zap.Float64("lat", coord.Lat),
			zap.Float64("lon", coord.Lon),
			zap.Error(err))
		return coord, false
	}

	if len(resp.Features) == 0 {
		uc.logger.Debug("No features near coordinate, keeping original",
			zap.Float64("lat", coord.Lat),
			zap.Float64("lon", coord.Lon))
		return coord, false
	}

	lonLat := resp.Features[0].Geometry.Coordinates
	if len(lonLat) < 2 {
		uc.logger.Warn("Feature has malformed coordinates, keeping original",
			zap.Float64s("coordinates", lonLat))
		return coord, false
	}

	snapped := domain.FromLonLat(lonLat[0], lonLat[1])
	if !snapped.IsFinite() || !utils.ValidateCoordinates(snapped.Lat, snapped.Lon) {
		uc.logger.Warn("Feature coordinates out of range, keeping original",
			zap.Float64s("coordinates", lonLat))
		return coord, false
	}

	uc.logger.Debug("Coordinate snapped",
		zap.Float64("lat", coord.Lat),
		zap.Float64("lon", coord.Lon),
		zap.Float64("moved_m", utils.HaversineDistance(coord.Lat, coord.Lon, snapped.Lat, snapped.Lon)*1000))

	if uc.cacheRepo != nil {
		if err := uc.cacheRepo.SetSnapped(ctx, key, snapped, uc.cacheTTL); err != nil {
			uc.logger.Warn("Snap cache write failed", zap.Error(err))
		}
	}

	return snapped, true
}

// SnapAll snaps every coordinate with at most uc.concurrency calls in flight.
// The result has the same length and order as coords.
func (uc *SnapUseCase) SnapAll(ctx context.Context, coords []domain.Coordinate) ([]domain.Coordinate, int) {
	result := make([]domain.Coordinate, len(coords))
	snappedFlags := make([]bool, len(coords))

	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := uc.concurrency
	if workers > len(coords) {
		workers = len(coords)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				result[i], snappedFlags[i] = uc.Snap(ctx, coords[i])
			}
		}()
	}

	for i := range coords {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	snapped := 0
	for _, ok := range snappedFlags {
		if ok {
			snapped++
		}
	}

	uc.logger.Info("Coordinates snapped",
		zap.Int("total", len(coords)),
		zap.Int("snapped", snapped),
		zap.Int("kept_original", len(coords)-snapped))

	return result, snapped
}
