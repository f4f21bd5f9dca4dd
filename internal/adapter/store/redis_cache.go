package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"palate-core/internal/domain/entity"
)

const classifyKeyPrefix = "classify:"

// RedisClassificationCache persists classification results across process
// restarts. Keys carry no TTL: a raw query's classification never changes, so
// the cache is append-only by design of the pipeline.
type RedisClassificationCache struct {
	client *redis.Client
}

func NewRedisClassificationCache(client *redis.Client) *RedisClassificationCache {
	return &RedisClassificationCache{client: client}
}

func (r *RedisClassificationCache) Get(ctx context.Context, rawQuery string) (entity.ClassificationResult, error) {
	var result entity.ClassificationResult
	val, err := r.client.Get(ctx, classifyKeyPrefix+rawQuery).Result()
	if errors.Is(err, redis.Nil) {
		return result, entity.ErrCacheMiss
	}
	if err != nil {
		return result, fmt.Errorf("redis get: %w", err)
	}
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return result, fmt.Errorf("redis cache entry corrupt: %w", err)
	}
	return result, nil
}

func (r *RedisClassificationCache) Set(ctx context.Context, rawQuery string, result entity.ClassificationResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, classifyKeyPrefix+rawQuery, data, 0).Err()
}
