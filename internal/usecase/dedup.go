package usecase

import (
	"math"
	"sort"

	"github.com/docking-planner/internal/domain"
)

// DefaultPrecision is the rounding used for deduplication, about 0.11 m at the equator.
const DefaultPrecision = 6

// RoundKey rounds both components of c to precision decimal digits.
func RoundKey(c domain.Coordinate, precision int) domain.CoordinateKey {
	return domain.CoordinateKey{
		Lat: roundTo(c.Lat, precision),
		Lon: roundTo(c.Lon, precision),
	}
}

func roundTo(v float64, precision int) float64 {
	scale := math.Pow(10, float64(precision))
	r := math.Round(v*scale) / scale
	if r == 0 {
		// -0 и 0 должны давать один и тот же ключ
		return 0
	}
	return r
}

// Deduplicate collapses coordinates whose rounded keys are equal. The last
// original coordinate seen for a key is kept. Output is sorted by key
// (lat, then lon) so the result does not depend on map iteration.
func Deduplicate(coords []domain.Coordinate, precision int) []domain.Coordinate {
	byKey := make(map[domain.CoordinateKey]domain.Coordinate, len(coords))
	for _, c := range coords {
		byKey[RoundKey(c, precision)] = c
	}

	keys := make([]domain.CoordinateKey, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	unique := make([]domain.Coordinate, len(keys))
	for i, k := range keys {
		unique[i] = byKey[k]
	}
	return unique
}
