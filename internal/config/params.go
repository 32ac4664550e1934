package config

import (
	"github.com/andresuchdata/stockcast/internal/engine"
	"github.com/andresuchdata/stockcast/internal/forecast"
	"github.com/andresuchdata/stockcast/internal/insight"
	"github.com/andresuchdata/stockcast/internal/inventory"
)

// Params converts the forecast section into engine constants
func (c ForecastConfig) Params() engine.Params {
	return engine.Params{
		Forecast: forecast.Params{
			MovingAverageWindow: c.MovingAverageWindow,
			SmoothingAlpha:      c.SmoothingAlpha,
			MinHistory:          c.MinHistoryDays,
		},
		Inventory: inventory.Params{
			HighConfidence:           c.HighConfidence,
			MediumConfidence:         c.MediumConfidence,
			SafetyStockHigh:          c.SafetyStockHigh,
			SafetyStockMedium:        c.SafetyStockMedium,
			SafetyStockLow:           c.SafetyStockLow,
			OverstockRiskFactor:      c.OverstockRiskFactor,
			StockoutRiskFactor:       c.StockoutRiskFactor,
			OverstockTolerance:       c.OverstockTolerance,
			HoldingCostRate:          c.HoldingCostRate,
			LostSaleRecoveryRate:     c.LostSaleRecoveryRate,
			StockoutReductionAtRisk:  c.StockoutReductionAtRisk,
			StockoutReductionCovered: c.StockoutReductionCovered,
			DiscountElasticity:       c.DiscountElasticity,
			MaxDiscountPct:           c.MaxDiscountPct,
		},
		Insight: insight.Params{
			TrendWindow:            c.TrendWindow,
			TrendThreshold:         c.TrendThreshold,
			FestivalLiftThreshold:  c.FestivalLiftThreshold,
			AnomalyHighFactor:      c.AnomalyHighFactor,
			AnomalyLowFactor:       c.AnomalyLowFactor,
			LowConfidenceThreshold: c.LowConfidenceThreshold,
		},
	}
}
