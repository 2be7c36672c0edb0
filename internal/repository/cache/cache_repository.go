package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/docking-planner/internal/domain"
	"github.com/docking-planner/internal/domain/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, key).Err()
	if err != nil {
		r.logger.Error("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}

	r.logger.Debug("Cache deleted", zap.String("key", key))
	return nil
}

func (r *cacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	val, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		r.logger.Error("Failed to check cache existence", zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("cache exists error: %w", err)
	}

	return val > 0, nil
}

// SnapKey returns the cache key of a rounded coordinate: snap:<lat>:<lon>.
func SnapKey(key domain.CoordinateKey) string {
	return "snap:" +
		strconv.FormatFloat(key.Lat, 'f', -1, 64) + ":" +
		strconv.FormatFloat(key.Lon, 'f', -1, 64)
}

// GetSnapped получает результат привязки; nil при промахе
func (r *cacheRepository) GetSnapped(ctx context.Context, key domain.CoordinateKey) (*domain.Coordinate, error) {
	data, err := r.Get(ctx, SnapKey(key))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var coord domain.Coordinate
	if err := json.Unmarshal(data, &coord); err != nil {
		r.logger.Error("Failed to unmarshal snapped coordinate", zap.Error(err))
		return nil, fmt.Errorf("unmarshal snapped coordinate: %w", err)
	}

	return &coord, nil
}

// SetSnapped сохраняет результат привязки
func (r *cacheRepository) SetSnapped(ctx context.Context, key domain.CoordinateKey, snapped domain.Coordinate, ttl time.Duration) error {
	data, err := json.Marshal(snapped)
	if err != nil {
		return fmt.Errorf("marshal snapped coordinate: %w", err)
	}

	return r.Set(ctx, SnapKey(key), data, ttl)
}
