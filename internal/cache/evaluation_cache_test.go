package cache

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/andresuchdata/stockcast/internal/config"
	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/andresuchdata/stockcast/internal/engine"
	"github.com/andresuchdata/stockcast/internal/forecast"
	"github.com/andresuchdata/stockcast/internal/insight"
	"github.com/andresuchdata/stockcast/internal/inventory"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryRedis keeps string values in a map and returns every matching key from
// a single SCAN page.
type memoryRedis struct {
	values map[string]string
	ttls   map[string]time.Duration
}

func newMemoryRedis() *memoryRedis {
	return &memoryRedis{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memoryRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *memoryRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		m.values[key] = string(v)
	case string:
		m.values[key] = v
	}
	m.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (m *memoryRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := m.values[k]; ok {
			delete(m.values, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (m *memoryRedis) Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd {
	prefix := strings.TrimSuffix(match, "*")
	var keys []string
	for k := range m.values {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return redis.NewScanCmdResult(keys, 0, nil)
}

func sampleForecast(shopID, productID int64) *domain.ProductForecast {
	day := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	best := forecast.Result{
		Model: forecast.ModelExponentialSmoothing,
		Predictions: []forecast.Prediction{
			{Date: day, Value: 4.21877},
			{Date: day.AddDate(0, 0, 1), Value: 4.45314},
		},
		Metrics:    forecast.Metrics{MAE: 0.8, RMSE: 0.9, MAPE: 18.62},
		Confidence: 81.38,
	}
	return &domain.ProductForecast{
		Product:     domain.Product{ID: productID, ShopID: shopID, Name: "Rice 5kg", CurrentStock: 4, UnitPrice: 10},
		HistoryDays: 10,
		GeneratedAt: day.Add(9 * time.Hour),
		Evaluation: &engine.Evaluation{
			Forecast:   best,
			Candidates: []forecast.Result{best},
			Recommendation: inventory.Recommendation{
				ForecastedDemand: 4,
				RecommendedStock: 4,
				SafetyStock:      0,
				RiskLevel:        inventory.RiskLow,
				Reasoning:        "Stock levels are optimal",
			},
			Insights: []insight.Insight{{Type: insight.TypeTrend, Title: "Sales are increasing", Impact: insight.ImpactPositive}},
			Impact:   inventory.BusinessImpact{StockoutReductionPct: 95},
		},
	}
}

func TestRedisEvaluationCache_RoundTrip(t *testing.T) {
	rdb := newMemoryRedis()
	c := newRedisEvaluationCache(rdb, 2*time.Minute)
	ctx := context.Background()

	got, ok, err := c.Get(ctx, 1, 7)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)

	want := sampleForecast(1, 7)
	require.NoError(t, c.Set(ctx, want))
	assert.Equal(t, 2*time.Minute, rdb.ttls["forecast:evaluation:1:7"])

	got, ok, err = c.Get(ctx, 1, 7)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)

	require.NoError(t, c.Invalidate(ctx, 1, 7))
	_, ok, err = c.Get(ctx, 1, 7)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisEvaluationCache_CorruptEntry(t *testing.T) {
	rdb := newMemoryRedis()
	rdb.values[evaluationKey(1, 7)] = "{not json"

	_, ok, err := newRedisEvaluationCache(rdb, 0).Get(context.Background(), 1, 7)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestRedisEvaluationCache_InvalidateShop(t *testing.T) {
	rdb := newMemoryRedis()
	c := newRedisEvaluationCache(rdb, 0)
	ctx := context.Background()

	for _, pf := range []*domain.ProductForecast{sampleForecast(1, 7), sampleForecast(1, 8), sampleForecast(12, 7)} {
		require.NoError(t, c.Set(ctx, pf))
	}
	assert.Equal(t, defaultCacheTTL, rdb.ttls[evaluationKey(1, 7)])

	keys, err := shopEvaluationKeys(ctx, rdb, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"forecast:evaluation:1:7", "forecast:evaluation:1:8"}, keys)

	require.NoError(t, c.InvalidateShop(ctx, 1))

	_, ok, err := c.Get(ctx, 1, 8)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = c.Get(ctx, 12, 7)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEvaluationTTL(t *testing.T) {
	assert.Equal(t, defaultCacheTTL, evaluationTTL(config.CacheConfig{}))
	assert.Equal(t, 90*time.Second, evaluationTTL(config.CacheConfig{EvaluationTTLSeconds: 90}))
}

func TestEvaluationKey_ScopedByShop(t *testing.T) {
	assert.Equal(t, "forecast:evaluation:7:42", evaluationKey(7, 42))
	assert.True(t, strings.HasPrefix(evaluationKey(7, 42), shopKeyPrefix(7)))
	// shop 1 must not match keys of shop 12
	assert.False(t, strings.HasPrefix(evaluationKey(12, 3), shopKeyPrefix(1)))
}

func TestNewEvaluationCache_DisabledIsNoop(t *testing.T) {
	c, err := NewEvaluationCache(config.CacheConfig{Enabled: false})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, &domain.ProductForecast{Product: domain.Product{ID: 1, ShopID: 1}}))

	got, ok, err := c.Get(ctx, 1, 1)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
	assert.NoError(t, c.InvalidateShop(ctx, 1))
}

func TestBuildRedisOptions(t *testing.T) {
	opts, err := buildRedisOptions(config.CacheConfig{RedisHost: "cache", RedisPort: "6380", RedisDB: 2})
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)

	opts, err = buildRedisOptions(config.CacheConfig{RedisURL: "redis://:secret@redis.internal:6379/3"})
	require.NoError(t, err)
	assert.Equal(t, "redis.internal:6379", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 3, opts.DB)

	_, err = buildRedisOptions(config.CacheConfig{RedisURL: "http://not-redis"})
	assert.Error(t, err)
}
