package repository

import (
	"github.com/docking-planner/internal/domain"
	"github.com/paulmach/orb/geojson"
)

// EdgeStore persists Voronoi edges between the extraction and node stages.
type EdgeStore interface {
	WriteEdges(edges []domain.Edge) error
	ReadEdges() ([]domain.Edge, error)
}

// NodeStore persists the candidate node dataset.
type NodeStore interface {
	WriteNodes(nodes []domain.Node) error
	ReadNodes() ([]domain.Node, error)
	// Encode renders nodes in the file format, for publication elsewhere
	Encode(nodes []domain.Node) ([]byte, error)
}

// HexGridStore persists the H3 hexagon grid shown under the map.
type HexGridStore interface {
	WriteHexGrid(fc *geojson.FeatureCollection) error
}
