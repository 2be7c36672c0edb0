package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/docking-planner/internal/domain"
	"github.com/docking-planner/internal/domain/repository"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/uber/h3-go/v4"
	"go.uber.org/zap"
)

// HexGridUseCase покрывает область планирования шестиугольниками H3
// для подложки карты
type HexGridUseCase struct {
	store      repository.HexGridStore
	logger     *zap.Logger
	bbox       domain.BoundingBox
	resolution int
}

// NewHexGridUseCase создает новый HexGridUseCase
func NewHexGridUseCase(
	store repository.HexGridStore,
	bbox domain.BoundingBox,
	resolution int,
	logger *zap.Logger,
) *HexGridUseCase {
	return &HexGridUseCase{
		store:      store,
		logger:     logger,
		bbox:       bbox,
		resolution: resolution,
	}
}

// Cells returns the cells whose centers lie inside the box, sorted by index.
func (uc *HexGridUseCase) Cells() ([]h3.Cell, error) {
	if !uc.bbox.Valid() {
		return nil, fmt.Errorf("empty bounding box %+v", uc.bbox)
	}

	ring := uc.bbox.Ring()
	// H3 замыкает контур сам
	loop := make(h3.GeoLoop, 0, len(ring)-1)
	for _, c := range ring[:len(ring)-1] {
		loop = append(loop, h3.LatLng{Lat: c.Lat, Lng: c.Lon})
	}

	cells, err := h3.PolygonToCells(h3.GeoPolygon{GeoLoop: loop}, uc.resolution)
	if err != nil {
		return nil, fmt.Errorf("polygon to cells (resolution %d): %w", uc.resolution, err)
	}

	sort.Slice(cells, func(i, j int) bool { return cells[i] < cells[j] })
	return cells, nil
}

// Run builds the grid and writes it to the store. It returns the number of cells.
func (uc *HexGridUseCase) Run(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	cells, err := uc.Cells()
	if err != nil {
		return 0, err
	}

	fc, err := HexagonsToFeatureCollection(cells)
	if err != nil {
		return 0, err
	}

	if err := uc.store.WriteHexGrid(fc); err != nil {
		return 0, err
	}

	uc.logger.Info("Hexagon grid written",
		zap.Int("resolution", uc.resolution),
		zap.Int("cells", len(cells)))

	return len(cells), nil
}

// HexagonsToFeatureCollection converts cells to closed [lon, lat] polygons
// with an h3_index property.
func HexagonsToFeatureCollection(cells []h3.Cell) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()

	for _, cell := range cells {
		boundary, err := cell.Boundary()
		if err != nil {
			return nil, fmt.Errorf("boundary of cell %s: %w", cell, err)
		}
		if len(boundary) == 0 {
			continue
		}

		ring := make(orb.Ring, 0, len(boundary)+1)
		for _, ll := range boundary {
			ring = append(ring, orb.Point{ll.Lng, ll.Lat})
		}
		ring = append(ring, ring[0])

		f := geojson.NewFeature(orb.Polygon{ring})
		f.Properties["h3_index"] = cell.String()
		fc.Append(f)
	}

	return fc, nil
}
