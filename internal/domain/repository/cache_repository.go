package repository

import (
	"context"
	"time"

	"github.com/docking-planner/internal/domain"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	// Get получает значение из кеша по ключу
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete удаляет значение из кеша
	Delete(ctx context.Context, key string) error

	// Exists проверяет существование ключа
	Exists(ctx context.Context, key string) (bool, error)

	// GetSnapped получает результат привязки к дороге по округлённой координате
	GetSnapped(ctx context.Context, key domain.CoordinateKey) (*domain.Coordinate, error)

	// SetSnapped сохраняет результат привязки к дороге
	SetSnapped(ctx context.Context, key domain.CoordinateKey, snapped domain.Coordinate, ttl time.Duration) error
}
