package repository

import (
	"context"

	"github.com/docking-planner/internal/domain"
)

// StationRepository определяет источник актуального списка док-станций
type StationRepository interface {
	// FetchStations возвращает станции в порядке, заданном источником
	FetchStations(ctx context.Context) ([]domain.Station, error)
}
