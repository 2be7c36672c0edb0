package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Stage selects which part of the pipeline to run. StageHexGrid builds the
// H3 grid for the map and is not part of StageAll.
type Stage string

const (
	StageEdges   Stage = "edges"
	StageNodes   Stage = "nodes"
	StageAll     Stage = "all"
	StageHexGrid Stage = "hexgrid"
)

// ParseStage validates a stage name. An empty string means StageAll.
func ParseStage(s string) (Stage, error) {
	switch Stage(s) {
	case "":
		return StageAll, nil
	case StageEdges, StageNodes, StageAll, StageHexGrid:
		return Stage(s), nil
	}
	return "", fmt.Errorf("unknown pipeline stage %q", s)
}

// RunsEdges reports whether the stage includes Voronoi edge extraction.
func (s Stage) RunsEdges() bool {
	return s == StageEdges || s == StageAll
}

// RunsNodes reports whether the stage includes node generation.
func (s Stage) RunsNodes() bool {
	return s == StageNodes || s == StageAll
}

// RunsHexGrid reports whether the stage builds the hexagon grid.
func (s Stage) RunsHexGrid() bool {
	return s == StageHexGrid
}

// RunSummary - итоги одного запуска пайплайна
type RunSummary struct {
	RunID             uuid.UUID `json:"run_id"`
	Stage             Stage     `json:"stage"`
	Stations          int       `json:"stations"`
	Edges             int       `json:"edges"`
	UniqueCoordinates int       `json:"unique_coordinates"`
	Snapped           int       `json:"snapped"`
	Nodes             int       `json:"nodes"`
	Hexagons          int       `json:"hexagons,omitempty"`
	ObjectKey         string    `json:"object_key,omitempty"`
	StartedAt         time.Time `json:"started_at"`
	FinishedAt        time.Time `json:"finished_at"`
}
