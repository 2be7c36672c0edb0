package csvfile

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/docking-planner/internal/domain"
	"github.com/docking-planner/internal/domain/repository"
	apperrors "github.com/docking-planner/internal/pkg/errors"
)

var nodeHeader = []string{"lat", "lon", "id", "name"}

type nodeStore struct {
	path string
}

// NewNodeStore returns a store for the candidate node file at path.
func NewNodeStore(path string) repository.NodeStore {
	return &nodeStore{path: path}
}

func (s *nodeStore) WriteNodes(nodes []domain.Node) error {
	if err := writeAtomic(s.path, nodeHeader, nodeRows(nodes)); err != nil {
		return fmt.Errorf("write nodes: %w", err)
	}
	return nil
}

func (s *nodeStore) ReadNodes() ([]domain.Node, error) {
	records, err := readRecords(s.path, nodeHeader)
	if err != nil {
		return nil, apperrors.ErrInvalidDataset.Wrap(err)
	}

	nodes := make([]domain.Node, 0, len(records))
	for i, rec := range records {
		lat, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, apperrors.ErrInvalidDataset.Wrap(fmt.Errorf("row %d: lat: %w", i+1, err))
		}
		lon, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, apperrors.ErrInvalidDataset.Wrap(fmt.Errorf("row %d: lon: %w", i+1, err))
		}
		nodes = append(nodes, domain.Node{Lat: lat, Lon: lon, ID: rec[2], Name: rec[3]})
	}
	return nodes, nil
}

// EncodeNodes renders nodes in the node file format, header included.
func EncodeNodes(nodes []domain.Node) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(nodeHeader); err != nil {
		return nil, err
	}
	if err := w.WriteAll(nodeRows(nodes)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode implements repository.NodeStore.
func (s *nodeStore) Encode(nodes []domain.Node) ([]byte, error) {
	return EncodeNodes(nodes)
}

func nodeRows(nodes []domain.Node) [][]string {
	rows := make([][]string, len(nodes))
	for i, n := range nodes {
		rows[i] = []string{formatFloat(n.Lat), formatFloat(n.Lon), n.ID, n.Name}
	}
	return rows
}
