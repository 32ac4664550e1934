package inventory

import (
	"fmt"

	"github.com/andresuchdata/stockcast/internal/forecast"
)

// Recommender turns a forecast into a stock recommendation
type Recommender struct {
	params Params
}

// NewRecommender creates a recommender with the given decision constants
func NewRecommender(params Params) *Recommender {
	return &Recommender{params: params}
}

// Recommend sizes stock for the forward prediction of result. Demand is the
// forward prediction rounded to whole units, so recommended stock never falls
// below it.
func (r *Recommender) Recommend(result forecast.Result, currentStock int) Recommendation {
	demand := forecast.Round(result.Forward().Value)

	// 1. Safety buffer grows as confidence drops
	safetyStock := int(forecast.Round(demand * r.SafetyStockPercent(result.Confidence)))

	// 2. Recommended stock = demand + safety
	recommended := int(demand) + safetyStock

	// 3. Risk
	risk, reasoning := r.classify(currentStock, recommended, demand)

	return Recommendation{
		ForecastedDemand: demand,
		RecommendedStock: recommended,
		SafetyStock:      safetyStock,
		RiskLevel:        risk,
		Reasoning:        reasoning,
	}
}

// SafetyStockPercent returns the buffer fraction for a confidence score
func (r *Recommender) SafetyStockPercent(confidence float64) float64 {
	switch {
	case confidence > r.params.HighConfidence:
		return r.params.SafetyStockHigh
	case confidence > r.params.MediumConfidence:
		return r.params.SafetyStockMedium
	default:
		return r.params.SafetyStockLow
	}
}

// classify applies the overstock rule before the stockout rule. Overstock is
// only ever Medium risk.
func (r *Recommender) classify(stock, recommended int, demand float64) (RiskLevel, string) {
	if float64(stock) >= float64(recommended)*r.params.OverstockRiskFactor {
		return RiskMedium, fmt.Sprintf(
			"Overstock: current stock of %d units is at least %.1fx the recommended %d units. Consider promotions or pausing reorders.",
			stock, r.params.OverstockRiskFactor, recommended)
	}
	if float64(stock) < demand*r.params.StockoutRiskFactor {
		return RiskHigh, fmt.Sprintf(
			"Critical stockout risk: current stock of %d units is below %.0f%% of forecasted demand (%.1f units). Reorder immediately.",
			stock, r.params.StockoutRiskFactor*100, demand)
	}
	return RiskLow, fmt.Sprintf(
		"Stock levels are optimal: %d units on hand against forecasted demand of %.1f units.",
		stock, demand)
}
