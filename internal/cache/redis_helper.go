package cache

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/andresuchdata/stockcast/internal/config"
	"github.com/redis/go-redis/v9"
)

const (
	defaultCacheTTL     = 5 * time.Minute
	pingTimeout         = 5 * time.Second
	evaluationKeyPrefix = "forecast:evaluation"
	scanBatchSize       = 100
)

// redisCommands is the part of *redis.Client the evaluation cache uses
type redisCommands interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
}

var _ redisCommands = (*redis.Client)(nil)

// connectEvaluationStore dials redis and returns the TTL evaluations are kept for.
func connectEvaluationStore(cfg config.CacheConfig) (*redis.Client, time.Duration, error) {
	opts, err := buildRedisOptions(cfg)
	if err != nil {
		return nil, 0, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, 0, fmt.Errorf("redis ping %s failed: %w", opts.Addr, err)
	}

	return client, evaluationTTL(cfg), nil
}

func evaluationTTL(cfg config.CacheConfig) time.Duration {
	if cfg.EvaluationTTLSeconds <= 0 {
		return defaultCacheTTL
	}
	return time.Duration(cfg.EvaluationTTLSeconds) * time.Second
}

// buildRedisOptions prefers REDIS_URL and falls back to host, port and db.
func buildRedisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if url := strings.TrimSpace(cfg.RedisURL); url != "" {
		opt, err := redis.ParseURL(url)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
	}

	host := strings.TrimSpace(cfg.RedisHost)
	if host == "" {
		host = "127.0.0.1"
	}

	port := strings.TrimSpace(cfg.RedisPort)
	if port == "" {
		port = "6379"
	}

	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}

// shopKeyPrefix ends with a separator so shop 1 never matches shop 12
func shopKeyPrefix(shopID int64) string {
	return fmt.Sprintf("%s:%d:", evaluationKeyPrefix, shopID)
}

func evaluationKey(shopID, productID int64) string {
	return fmt.Sprintf("%s%d", shopKeyPrefix(shopID), productID)
}

// shopEvaluationKeys collects every cached evaluation key of a shop.
func shopEvaluationKeys(ctx context.Context, rdb redisCommands, shopID int64) ([]string, error) {
	var (
		keys   []string
		cursor uint64
	)
	pattern := shopKeyPrefix(shopID) + "*"
	for {
		batch, next, err := rdb.Scan(ctx, cursor, pattern, scanBatchSize).Result()
		if err != nil {
			return nil, fmt.Errorf("redis scan shop %d failed: %w", shopID, err)
		}
		keys = append(keys, batch...)

		cursor = next
		if cursor == 0 {
			return keys, nil
		}
	}
}

// dropShopEvaluations deletes a shop's evaluations and reports how many went.
func dropShopEvaluations(ctx context.Context, rdb redisCommands, shopID int64) (int64, error) {
	keys, err := shopEvaluationKeys(ctx, rdb, shopID)
	if err != nil {
		return 0, err
	}

	var deleted int64
	for start := 0; start < len(keys); start += scanBatchSize {
		end := start + scanBatchSize
		if end > len(keys) {
			end = len(keys)
		}
		n, err := rdb.Del(ctx, keys[start:end]...).Result()
		if err != nil {
			return deleted, fmt.Errorf("redis delete shop %d failed: %w", shopID, err)
		}
		deleted += n
	}
	return deleted, nil
}
