package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docking-planner/internal/domain"
	apperrors "github.com/docking-planner/internal/pkg/errors"
	"github.com/docking-planner/internal/usecase"
)

func TestMergeNodes(t *testing.T) {
	snapped := []domain.Coordinate{
		{Lat: 51.5, Lon: -0.1},
		{Lat: 51.51, Lon: -0.12},
	}
	stations := []domain.Station{
		{ID: "BikePoints_1", Name: "River Street, Clerkenwell", Lat: 51.529163, Lon: -0.10997},
		{ID: "BikePoints_2", Name: "Phillimore Gardens, Kensington", Lat: 51.499606, Lon: -0.197574},
	}

	nodes, err := usecase.MergeNodes(snapped, stations)

	require.NoError(t, err)
	require.Len(t, nodes, 4)
	assert.Equal(t, domain.Node{Lat: 51.5, Lon: -0.1, ID: "potential_0", Name: "Potential Node"}, nodes[0])
	assert.Equal(t, domain.Node{Lat: 51.51, Lon: -0.12, ID: "potential_1", Name: "Potential Node"}, nodes[1])
	assert.Equal(t, "BikePoints_1", nodes[2].ID)
	assert.Equal(t, "River Street, Clerkenwell", nodes[2].Name)
	assert.Equal(t, "BikePoints_2", nodes[3].ID)
	assert.True(t, nodes[0].IsPotential())
	assert.False(t, nodes[3].IsPotential())
}

func TestMergeNodes_NoCandidates(t *testing.T) {
	stations := []domain.Station{
		{ID: "BikePoints_1", Name: "A", Lat: 1, Lon: 1},
	}

	nodes, err := usecase.MergeNodes(nil, stations)

	require.NoError(t, err)
	assert.Equal(t, []domain.Node{{Lat: 1, Lon: 1, ID: "BikePoints_1", Name: "A"}}, nodes)
}

func TestMergeNodes_InvalidStations(t *testing.T) {
	tests := []struct {
		name     string
		stations []domain.Station
	}{
		{name: "empty id", stations: []domain.Station{{ID: "", Name: "A"}}},
		{name: "duplicate id", stations: []domain.Station{{ID: "BikePoints_1"}, {ID: "BikePoints_1"}}},
		{name: "generated namespace", stations: []domain.Station{{ID: "potential_3"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes, err := usecase.MergeNodes([]domain.Coordinate{{Lat: 1, Lon: 1}}, tt.stations)
			assert.Nil(t, nodes)
			assert.ErrorIs(t, err, apperrors.ErrInvalidDataset)
		})
	}
}
