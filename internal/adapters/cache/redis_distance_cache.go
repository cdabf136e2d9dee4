package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RedisDistanceCache stores city-pair distances in redis, for deployments
// where several engine instances share one cache.
type RedisDistanceCache struct {
	Client *redis.Client
}

func NewRedisDistanceCache(client *redis.Client) *RedisDistanceCache {
	return &RedisDistanceCache{Client: client}
}

func distanceKey(originCityID, destinationCityID string) string {
	return "dist:" + originCityID + "|" + destinationCityID
}

func (r *RedisDistanceCache) Get(ctx context.Context, originCityID, destinationCityID string) (float64, bool, error) {
	if r.Client == nil {
		return 0, false, errors.New("distance cache: redis client is nil")
	}
	if originCityID == "" || destinationCityID == "" {
		return 0, false, errors.New("get distance cache: city ids must not be empty")
	}

	raw, err := r.Client.Get(ctx, distanceKey(originCityID, destinationCityID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get distance cache: redis get: %w", err)
	}

	distance, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, fmt.Errorf("get distance cache: parse %q: %w", raw, err)
	}
	return distance, true, nil
}

func (r *RedisDistanceCache) Put(ctx context.Context, originCityID, destinationCityID string, distance float64) error {
	if r.Client == nil {
		return errors.New("distance cache: redis client is nil")
	}
	if originCityID == "" || destinationCityID == "" {
		return errors.New("insert distance cache: city ids must not be empty")
	}

	value := strconv.FormatFloat(distance, 'f', -1, 64)
	if err := r.Client.Set(ctx, distanceKey(originCityID, destinationCityID), value, 0).Err(); err != nil {
		return fmt.Errorf("insert distance cache %q -> %q: %w", originCityID, destinationCityID, err)
	}
	return nil
}
