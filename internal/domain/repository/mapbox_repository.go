package repository

import (
	"context"

	"github.com/docking-planner/internal/domain"
)

// MapboxRepository определяет методы для работы с Mapbox API
type MapboxRepository interface {
	// ReverseGeocode возвращает адресуемые объекты рядом с координатой
	ReverseGeocode(ctx context.Context, coord domain.Coordinate) (*domain.GeocodingResponse, error)
}
