// Package cache provides the optional Redis layer for computed rankings, so
// read-side consumers can fetch the latest ranking without a database hit.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"nflstats/analyzer/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const rankingKey = "nflstats:ranking:latest"

// Config holds Redis connection configuration
type Config struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// RedisCache wraps the Redis client
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to Redis and verifies the connection
func NewRedisCache(cfg Config) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisCache{client: client}, nil
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// SetRanking stores the ranking entries, in rank order, under the shared key.
// Entries whose overall mean is undefined are dropped: JSON has no NaN.
func (c *RedisCache) SetRanking(ctx context.Context, entries []models.RankingEntry, ttl time.Duration) error {
	cacheable := make([]models.RankingEntry, 0, len(entries))
	for _, e := range entries {
		if math.IsNaN(e.OverallAverageDifference) {
			log.Debug().Str("position", e.Position).Msg("Ranking entry with undefined mean not cached")
			continue
		}
		cacheable = append(cacheable, e)
	}

	payload, err := json.Marshal(cacheable)
	if err != nil {
		return fmt.Errorf("failed to marshal ranking: %w", err)
	}

	if err := c.client.Set(ctx, rankingKey, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache ranking: %w", err)
	}

	log.Debug().
		Int("positions", len(cacheable)).
		Dur("ttl", ttl).
		Msg("Ranking cached")

	return nil
}

// GetRanking retrieves the cached ranking. The second return value is false
// on a cache miss.
func (c *RedisCache) GetRanking(ctx context.Context) ([]models.RankingEntry, bool, error) {
	payload, err := c.client.Get(ctx, rankingKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached ranking: %w", err)
	}

	var entries []models.RankingEntry
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached ranking: %w", err)
	}

	return entries, true, nil
}

// InvalidateRanking drops the cached ranking
func (c *RedisCache) InvalidateRanking(ctx context.Context) error {
	if err := c.client.Del(ctx, rankingKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate ranking cache: %w", err)
	}
	return nil
}
