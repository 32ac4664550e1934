package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/andresuchdata/stockcast/internal/config"
	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/redis/go-redis/v9"
)

// EvaluationCache keeps the latest evaluation per product so what-if requests
// can reuse a recommendation without refitting the models. Callers must have
// authorized the shop before reading.
type EvaluationCache interface {
	Get(ctx context.Context, shopID, productID int64) (*domain.ProductForecast, bool, error)
	Set(ctx context.Context, pf *domain.ProductForecast) error
	Invalidate(ctx context.Context, shopID, productID int64) error
	InvalidateShop(ctx context.Context, shopID int64) error
}

type redisEvaluationCache struct {
	rdb redisCommands
	ttl time.Duration
}

type noopEvaluationCache struct{}

func NewEvaluationCache(cfg config.CacheConfig) (EvaluationCache, error) {
	if !cfg.Enabled {
		return &noopEvaluationCache{}, nil
	}

	client, ttl, err := connectEvaluationStore(cfg)
	if err != nil {
		return nil, err
	}

	return NewRedisEvaluationCache(client, ttl), nil
}

// NewRedisEvaluationCache wraps an existing client
func NewRedisEvaluationCache(client *redis.Client, ttl time.Duration) EvaluationCache {
	return newRedisEvaluationCache(client, ttl)
}

func newRedisEvaluationCache(rdb redisCommands, ttl time.Duration) *redisEvaluationCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &redisEvaluationCache{rdb: rdb, ttl: ttl}
}

func NewNoopEvaluationCache() EvaluationCache {
	return &noopEvaluationCache{}
}

func (c *redisEvaluationCache) Get(ctx context.Context, shopID, productID int64) (*domain.ProductForecast, bool, error) {
	payload, err := c.rdb.Get(ctx, evaluationKey(shopID, productID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var pf domain.ProductForecast
	if err := json.Unmarshal(payload, &pf); err != nil {
		return nil, false, fmt.Errorf("decode evaluation cache: %w", err)
	}

	return &pf, true, nil
}

func (c *redisEvaluationCache) Set(ctx context.Context, pf *domain.ProductForecast) error {
	payload, err := json.Marshal(pf)
	if err != nil {
		return fmt.Errorf("encode evaluation cache: %w", err)
	}

	key := evaluationKey(pf.Product.ShopID, pf.Product.ID)
	if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisEvaluationCache) Invalidate(ctx context.Context, shopID, productID int64) error {
	if err := c.rdb.Del(ctx, evaluationKey(shopID, productID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (c *redisEvaluationCache) InvalidateShop(ctx context.Context, shopID int64) error {
	_, err := dropShopEvaluations(ctx, c.rdb, shopID)
	return err
}

func (n *noopEvaluationCache) Get(ctx context.Context, shopID, productID int64) (*domain.ProductForecast, bool, error) {
	return nil, false, nil
}

func (n *noopEvaluationCache) Set(ctx context.Context, pf *domain.ProductForecast) error {
	return nil
}

func (n *noopEvaluationCache) Invalidate(ctx context.Context, shopID, productID int64) error {
	return nil
}

func (n *noopEvaluationCache) InvalidateShop(ctx context.Context, shopID int64) error {
	return nil
}
