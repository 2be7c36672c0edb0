package usecase

import (
	"fmt"

	"github.com/docking-planner/internal/domain"
	apperrors "github.com/docking-planner/internal/pkg/errors"
)

// MergeNodes builds the candidate node dataset: snapped coordinates become
// potential_<i> nodes in the given order, followed by the stations in fetch
// order. Station ids must be non-empty, unique and outside the potential_
// namespace.
func MergeNodes(snapped []domain.Coordinate, stations []domain.Station) ([]domain.Node, error) {
	seen := make(map[string]struct{}, len(stations))
	for i, s := range stations {
		switch {
		case s.ID == "":
			return nil, invalidDataset(fmt.Errorf("station at index %d has an empty id", i))
		case domain.IsPotentialID(s.ID):
			return nil, invalidDataset(fmt.Errorf("station id %q collides with generated ids", s.ID))
		}
		if _, ok := seen[s.ID]; ok {
			return nil, invalidDataset(fmt.Errorf("duplicate station id %q", s.ID))
		}
		seen[s.ID] = struct{}{}
	}

	nodes := make([]domain.Node, 0, len(snapped)+len(stations))
	for i, c := range snapped {
		nodes = append(nodes, domain.Node{
			Lat:  c.Lat,
			Lon:  c.Lon,
			ID:   domain.PotentialID(i),
			Name: domain.PotentialNodeName,
		})
	}
	for _, s := range stations {
		nodes = append(nodes, domain.Node{
			Lat:  s.Lat,
			Lon:  s.Lon,
			ID:   s.ID,
			Name: s.Name,
		})
	}
	return nodes, nil
}

func invalidDataset(err error) error {
	return apperrors.ErrInvalidDataset.Wrap(err)
}
