package usecase_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/docking-planner/internal/domain"
	"github.com/docking-planner/internal/usecase"
)

func TestRoundKey(t *testing.T) {
	c := domain.Coordinate{Lat: 51.50012345, Lon: -0.09987654}

	key := usecase.RoundKey(c, 6)
	assert.Equal(t, domain.CoordinateKey{Lat: 51.500123, Lon: -0.099877}, key)

	again := usecase.RoundKey(domain.Coordinate{Lat: key.Lat, Lon: key.Lon}, 6)
	assert.Equal(t, key, again)

	negZero := usecase.RoundKey(domain.Coordinate{Lat: math.Copysign(0, -1), Lon: -0.0000001}, 6)
	assert.Equal(t, domain.CoordinateKey{}, negZero)
	assert.False(t, math.Signbit(negZero.Lat))
	assert.False(t, math.Signbit(negZero.Lon))
}

func TestDeduplicate(t *testing.T) {
	t.Run("collapses near-identical points and keeps the last seen", func(t *testing.T) {
		coords := []domain.Coordinate{
			{Lat: 51.5, Lon: -0.1},
			{Lat: 51.50000001, Lon: -0.10000001},
			{Lat: 51.4, Lon: -0.2},
		}

		unique := usecase.Deduplicate(coords, 6)

		assert.Equal(t, []domain.Coordinate{
			{Lat: 51.4, Lon: -0.2},
			{Lat: 51.50000001, Lon: -0.10000001},
		}, unique)
	})

	t.Run("output is sorted by latitude then longitude", func(t *testing.T) {
		coords := []domain.Coordinate{
			{Lat: 2, Lon: 1},
			{Lat: 1, Lon: 5},
			{Lat: 2, Lon: 0},
			{Lat: 1, Lon: 3},
		}

		unique := usecase.Deduplicate(coords, 6)

		assert.Equal(t, []domain.Coordinate{
			{Lat: 1, Lon: 3},
			{Lat: 1, Lon: 5},
			{Lat: 2, Lon: 0},
			{Lat: 2, Lon: 1},
		}, unique)
	})

	t.Run("idempotent", func(t *testing.T) {
		coords := []domain.Coordinate{
			{Lat: 51.5, Lon: -0.1},
			{Lat: 51.5, Lon: -0.1},
			{Lat: 51.6, Lon: -0.3},
		}

		once := usecase.Deduplicate(coords, 6)
		twice := usecase.Deduplicate(once, 6)

		assert.Equal(t, once, twice)
		assert.Len(t, once, 2)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, usecase.Deduplicate(nil, 6))
	})
}
