package inventory

import (
	"testing"
	"time"

	"github.com/andresuchdata/stockcast/internal/forecast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resultWith(forward, confidence float64) forecast.Result {
	return forecast.Result{
		Model: forecast.ModelMovingAverage,
		Predictions: []forecast.Prediction{
			{Date: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), Value: forward},
			{Date: time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), Value: forward},
		},
		Metrics:    forecast.Metrics{MAPE: 100 - confidence},
		Confidence: confidence,
	}
}

func TestRecommend_SafetyStockBands(t *testing.T) {
	r := NewRecommender(DefaultParams())

	tests := []struct {
		name        string
		confidence  float64
		safety      int
		recommended int
	}{
		{"high confidence", 90, 10, 110},
		{"exactly 80 falls to medium band", 80, 15, 115},
		{"medium confidence", 70, 15, 115},
		{"exactly 60 falls to low band", 60, 20, 120},
		{"low confidence", 30, 20, 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := r.Recommend(resultWith(100, tt.confidence), 100)
			assert.Equal(t, 100.0, rec.ForecastedDemand)
			assert.Equal(t, tt.safety, rec.SafetyStock)
			assert.Equal(t, tt.recommended, rec.RecommendedStock)
		})
	}
}

func TestRecommend_MonotonicInConfidence(t *testing.T) {
	r := NewRecommender(DefaultParams())

	for _, forward := range []float64{37, 4.4531, 12.5, 0.4} {
		prev := 0
		for _, confidence := range []float64{95, 81, 79, 61, 59, 0} {
			rec := r.Recommend(resultWith(forward, confidence), 0)
			assert.GreaterOrEqual(t, rec.RecommendedStock, prev, "forward %v confidence %v", forward, confidence)
			assert.GreaterOrEqual(t, float64(rec.RecommendedStock), rec.ForecastedDemand, "forward %v confidence %v", forward, confidence)
			assert.Equal(t, int(rec.ForecastedDemand)+rec.SafetyStock, rec.RecommendedStock)
			prev = rec.RecommendedStock
		}
	}
}

func TestRecommend_RoundsFractionalDemand(t *testing.T) {
	rec := NewRecommender(DefaultParams()).Recommend(resultWith(12.6, 90), 13)
	assert.Equal(t, 13.0, rec.ForecastedDemand)
	assert.Equal(t, 1, rec.SafetyStock)
	assert.Equal(t, 14, rec.RecommendedStock)

	// 4.45 rounds down; the recommendation must still cover the reported demand
	rec = NewRecommender(DefaultParams()).Recommend(resultWith(4.4531, 81.38), 4)
	assert.Equal(t, 4.0, rec.ForecastedDemand)
	assert.Equal(t, 0, rec.SafetyStock)
	assert.Equal(t, 4, rec.RecommendedStock)
	assert.Equal(t, RiskLow, rec.RiskLevel)
}

func TestRecommend_RiskBoundaries(t *testing.T) {
	r := NewRecommender(DefaultParams())
	result := resultWith(100, 90) // recommended stock 110

	tests := []struct {
		name  string
		stock int
		risk  RiskLevel
	}{
		{"exactly 1.5x recommended is overstock", 165, RiskMedium},
		{"far above recommended stays medium", 10000, RiskMedium},
		{"just below overstock threshold", 164, RiskLow},
		{"exactly 80% of demand", 80, RiskLow},
		{"one unit below 80% of demand", 79, RiskHigh},
		{"empty shelf", 0, RiskHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := r.Recommend(result, tt.stock)
			assert.Equal(t, tt.risk, rec.RiskLevel)
			assert.NotEmpty(t, rec.Reasoning)
		})
	}
}

func TestEstimate(t *testing.T) {
	e := NewEstimator(DefaultParams())

	tests := []struct {
		name        string
		current     int
		recommended int
		price       float64
		want        BusinessImpact
	}{
		{
			name:        "zero stock",
			current:     0,
			recommended: 110,
			price:       10,
			want:        BusinessImpact{OverstockReductionPct: 0, StockoutReductionPct: 75, CostSavings: 0, RevenueIncrease: 330},
		},
		{
			name:        "overstocked",
			current:     200,
			recommended: 100,
			price:       10,
			want:        BusinessImpact{OverstockReductionPct: 40, StockoutReductionPct: 95, CostSavings: 120, RevenueIncrease: 0},
		},
		{
			name:        "within tolerance",
			current:     110,
			recommended: 100,
			price:       10,
			want:        BusinessImpact{OverstockReductionPct: 0, StockoutReductionPct: 95},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Estimate(tt.current, tt.recommended, 100, tt.price)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWhatIf_NoChangeReproducesRecommendation(t *testing.T) {
	params := DefaultParams()
	rec := NewRecommender(params).Recommend(resultWith(100, 90), 100)

	got, err := NewSimulator(params).WhatIf(rec, 100, 0, 10)
	require.NoError(t, err)

	assert.Equal(t, rec.RiskLevel, got.RiskLevel)
	assert.InDelta(t, rec.ForecastedDemand, got.AdjustedDemand, 1e-9)
	assert.Equal(t, rec.RecommendedStock, got.AdjustedRecommendedStock)
	assert.Equal(t, 10.0, got.EffectivePrice)
}

func TestWhatIf_DiscountLiftsDemandAndCutsPrice(t *testing.T) {
	params := DefaultParams()
	rec := NewRecommender(params).Recommend(resultWith(100, 90), 100)
	sim := NewSimulator(params)

	got, err := sim.WhatIf(rec, 100, 20, 10)
	require.NoError(t, err)
	assert.InDelta(t, 110.0, got.AdjustedDemand, 1e-9)
	assert.Equal(t, 120, got.AdjustedRecommendedStock)
	assert.Equal(t, 10, got.SafetyStock)
	assert.InDelta(t, 8.0, got.EffectivePrice, 1e-9)
	assert.Equal(t, RiskLow, got.RiskLevel)

	short, err := sim.WhatIf(rec, 80, 20, 10)
	require.NoError(t, err)
	assert.Equal(t, RiskHigh, short.RiskLevel)
	assert.Equal(t, 96.0, short.Impact.RevenueIncrease)
	assert.Equal(t, 75, short.Impact.StockoutReductionPct)
}

func TestWhatIf_RejectsInvalidInput(t *testing.T) {
	sim := NewSimulator(DefaultParams())
	rec := Recommendation{ForecastedDemand: 10, RecommendedStock: 11, SafetyStock: 1}

	_, err := sim.WhatIf(rec, 10, 50.5, 10)
	assert.ErrorIs(t, err, ErrInvalidDiscount)

	_, err = sim.WhatIf(rec, 10, -1, 10)
	assert.ErrorIs(t, err, ErrInvalidDiscount)

	_, err = sim.WhatIf(rec, -5, 10, 10)
	assert.ErrorIs(t, err, ErrNegativeStock)
}
