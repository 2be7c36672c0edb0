package csvfile

import (
	"fmt"

	"github.com/docking-planner/internal/domain"
	"github.com/docking-planner/internal/domain/repository"
	apperrors "github.com/docking-planner/internal/pkg/errors"
)

var edgeHeader = []string{"start_lat", "start_lon", "end_lat", "end_lon"}

type edgeStore struct {
	path string
}

// NewEdgeStore returns a store for the Voronoi edge file at path.
func NewEdgeStore(path string) repository.EdgeStore {
	return &edgeStore{path: path}
}

func (s *edgeStore) WriteEdges(edges []domain.Edge) error {
	rows := make([][]string, len(edges))
	for i, e := range edges {
		rows[i] = []string{
			formatFloat(e.Start.Lat),
			formatFloat(e.Start.Lon),
			formatFloat(e.End.Lat),
			formatFloat(e.End.Lon),
		}
	}
	if err := writeAtomic(s.path, edgeHeader, rows); err != nil {
		return fmt.Errorf("write edges: %w", err)
	}
	return nil
}

func (s *edgeStore) ReadEdges() ([]domain.Edge, error) {
	records, err := readRecords(s.path, edgeHeader)
	if err != nil {
		return nil, apperrors.ErrInvalidEdgeFile.Wrap(err)
	}

	edges := make([]domain.Edge, 0, len(records))
	for i, rec := range records {
		v, err := parseFloats(rec)
		if err != nil {
			return nil, apperrors.ErrInvalidEdgeFile.Wrap(fmt.Errorf("row %d: %w", i+1, err))
		}
		e := domain.Edge{
			Start: domain.Coordinate{Lat: v[0], Lon: v[1]},
			End:   domain.Coordinate{Lat: v[2], Lon: v[3]},
		}
		if !e.Start.IsFinite() || !e.End.IsFinite() {
			return nil, apperrors.ErrInvalidEdgeFile.Wrap(fmt.Errorf("row %d: non-finite endpoint", i+1))
		}
		edges = append(edges, e)
	}
	return edges, nil
}
