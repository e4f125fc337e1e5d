package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mixlab/internal/config"
	"mixlab/internal/models"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient creates a redis client from config.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

// RedisStatsCache keeps dashboard aggregates in redis so several API
// instances share one computed value. Entries expire at twice the staleness
// TTL; IsStale on the value itself decides recomputation before that.
type RedisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStatsCache(client *redis.Client, ttl time.Duration) *RedisStatsCache {
	return &RedisStatsCache{client: client, ttl: ttl}
}

func statsKey(month string) string {
	return fmt.Sprintf("stats:month:%s", month)
}

func (r *RedisStatsCache) Get(ctx context.Context, month string) (*models.CachedStats, error) {
	if r.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	val, err := r.client.Get(ctx, statsKey(month)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stats from redis: %w", err)
	}

	var cached models.CachedStats
	if err := json.Unmarshal([]byte(val), &cached); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached stats: %w", err)
	}
	return &cached, nil
}

func (r *RedisStatsCache) Set(ctx context.Context, month string, stats *models.CachedStats) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}
	if err := r.client.Set(ctx, statsKey(month), data, 2*r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set stats in redis: %w", err)
	}
	return nil
}
