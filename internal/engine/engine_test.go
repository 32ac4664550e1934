package engine

import (
	"testing"
	"time"

	"github.com/andresuchdata/stockcast/internal/forecast"
	"github.com/andresuchdata/stockcast/internal/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func history(quantities ...int) []forecast.SalesDataPoint {
	start := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	out := make([]forecast.SalesDataPoint, len(quantities))
	for i, q := range quantities {
		out[i] = forecast.SalesDataPoint{Date: start.AddDate(0, 0, i), QuantitySold: q}
	}
	return out
}

func newTestEngine() *Engine {
	now := time.Date(2024, time.May, 20, 9, 0, 0, 0, time.UTC)
	return New(DefaultParams(), func() time.Time { return now })
}

func TestEvaluate_FlatDemand(t *testing.T) {
	e := newTestEngine()

	eval, err := e.Evaluate(history(20, 20, 20, 20, 20, 20, 20, 20, 20, 20), 22, 5)
	require.NoError(t, err)

	assert.Equal(t, forecast.ModelMovingAverage, eval.Forecast.Model)
	assert.Len(t, eval.Candidates, 3)
	assert.Equal(t, 100.0, eval.Forecast.Confidence)
	assert.Equal(t, time.Date(2024, time.May, 21, 0, 0, 0, 0, time.UTC), eval.Forecast.Forward().Date)

	rec := eval.Recommendation
	assert.Equal(t, 20.0, rec.ForecastedDemand)
	assert.Equal(t, 2, rec.SafetyStock)
	assert.Equal(t, 22, rec.RecommendedStock)
	assert.Equal(t, inventory.RiskLow, rec.RiskLevel)

	assert.Empty(t, eval.Insights)
	assert.Equal(t, inventory.BusinessImpact{StockoutReductionPct: 95}, eval.Impact)
}

func TestEvaluate_InsufficientHistory(t *testing.T) {
	_, err := newTestEngine().Evaluate(history(1, 2, 3), 10, 1)
	assert.ErrorIs(t, err, forecast.ErrInsufficientHistory)
}

func TestEvaluate_RecommendationInvariant(t *testing.T) {
	e := newTestEngine()

	tests := []struct {
		name    string
		history []forecast.SalesDataPoint
		stock   int
	}{
		{"noisy", history(3, 9, 4, 12, 0, 7, 15, 2, 8, 11, 5, 13), 4},
		{"smoothing with fractional forward value", history(3, 5, 4, 6, 3, 5, 4, 6, 3, 5), 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval, err := e.Evaluate(tt.history, tt.stock, 12.5)
			require.NoError(t, err)

			rec := eval.Recommendation
			assert.Equal(t, forecast.Round(eval.Forecast.Forward().Value), rec.ForecastedDemand)
			assert.Equal(t, int(rec.ForecastedDemand)+rec.SafetyStock, rec.RecommendedStock)
			assert.GreaterOrEqual(t, float64(rec.RecommendedStock), rec.ForecastedDemand)
			for _, c := range eval.Candidates {
				assert.GreaterOrEqual(t, c.Metrics.MAPE, eval.Forecast.Metrics.MAPE)
			}
		})
	}
}

func TestEvaluate_SmoothingWinnerRoundsDemand(t *testing.T) {
	eval, err := newTestEngine().Evaluate(history(3, 5, 4, 6, 3, 5, 4, 6, 3, 5), 4, 10)
	require.NoError(t, err)

	assert.Equal(t, forecast.ModelExponentialSmoothing, eval.Forecast.Model)
	assert.InDelta(t, 4.4531, eval.Forecast.Forward().Value, 1e-4)
	assert.Greater(t, eval.Forecast.Confidence, 80.0)

	rec := eval.Recommendation
	assert.Equal(t, 4.0, rec.ForecastedDemand)
	assert.Equal(t, 0, rec.SafetyStock)
	assert.Equal(t, 4, rec.RecommendedStock)
}

func TestWhatIf_UsesEvaluatedRecommendation(t *testing.T) {
	e := newTestEngine()

	eval, err := e.Evaluate(history(20, 20, 20, 20, 20, 20, 20, 20, 20, 20), 22, 5)
	require.NoError(t, err)

	same, err := e.WhatIf(eval.Recommendation, 22, 0, 5)
	require.NoError(t, err)
	assert.Equal(t, eval.Recommendation.RiskLevel, same.RiskLevel)
	assert.Equal(t, eval.Recommendation.RecommendedStock, same.AdjustedRecommendedStock)

	discounted, err := e.WhatIf(eval.Recommendation, 22, 40, 5)
	require.NoError(t, err)
	assert.InDelta(t, 24.0, discounted.AdjustedDemand, 1e-9)
	assert.Equal(t, 26, discounted.AdjustedRecommendedStock)
	assert.InDelta(t, 3.0, discounted.EffectivePrice, 1e-9)
}
