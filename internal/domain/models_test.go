package domain

import (
	"testing"
	"time"

	"github.com/andresuchdata/stockcast/internal/engine"
	"github.com/andresuchdata/stockcast/internal/forecast"
	"github.com/andresuchdata/stockcast/internal/inventory"
	"github.com/stretchr/testify/assert"
)

func TestNewForecastRecord(t *testing.T) {
	tomorrow := time.Date(2024, 7, 2, 0, 0, 0, 0, time.UTC)
	eval := &engine.Evaluation{
		Forecast: forecast.Result{
			Model:       forecast.ModelExponentialSmoothing,
			Predictions: []forecast.Prediction{{Date: tomorrow.AddDate(0, 0, -1), Value: 9}, {Date: tomorrow, Value: 12.4}},
			Confidence:  72.5,
		},
		Recommendation: inventory.Recommendation{
			ForecastedDemand: 12.4,
			RecommendedStock: 14,
			SafetyStock:      2,
			RiskLevel:        inventory.RiskMedium,
		},
	}

	rec := NewForecastRecord(&Product{ID: 5, ShopID: 2}, eval)

	assert.Equal(t, int64(2), rec.ShopID)
	assert.Equal(t, int64(5), rec.ProductID)
	assert.Equal(t, tomorrow, rec.ForecastDate)
	assert.Equal(t, 12.4, rec.PredictedDemand)
	assert.Equal(t, 14, rec.RecommendedStock)
	assert.Equal(t, 2, rec.SafetyStock)
	assert.Equal(t, "Medium", rec.RiskLevel)
	assert.Equal(t, "Exponential Smoothing", rec.ModelUsed)
	assert.Equal(t, 72.5, rec.ConfidenceScore)
}

func TestBatchResultTally(t *testing.T) {
	r := &BatchResult{
		Generated: 9,
		Items: []BatchItem{
			{Status: BatchGenerated},
			{Status: BatchGenerated},
			{Status: BatchSkipped},
			{Status: BatchFailed},
		},
	}
	r.Tally()

	assert.Equal(t, 2, r.Generated)
	assert.Equal(t, 1, r.Skipped)
	assert.Equal(t, 1, r.Failed)
}

func TestSalesRecordDataPoint(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := SalesRecord{SaleDate: day, QuantitySold: 4, IsFestival: true}.DataPoint()
	assert.Equal(t, forecast.SalesDataPoint{Date: day, QuantitySold: 4, IsFestival: true}, p)
}
