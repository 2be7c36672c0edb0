// Package geojsonfile writes GeoJSON artifacts for the front-end map.
package geojsonfile

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/docking-planner/internal/domain/repository"
	"github.com/docking-planner/internal/pkg/fileutil"
	"github.com/paulmach/orb/geojson"
)

type hexGridStore struct {
	path string
}

// NewHexGridStore returns a store for the hexagon grid file at path.
func NewHexGridStore(path string) repository.HexGridStore {
	return &hexGridStore{path: path}
}

func (s *hexGridStore) WriteHexGrid(fc *geojson.FeatureCollection) error {
	err := fileutil.WriteAtomic(s.path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(fc)
	})
	if err != nil {
		return fmt.Errorf("write hexagon grid: %w", err)
	}
	return nil
}
