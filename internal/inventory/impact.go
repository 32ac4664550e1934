package inventory

import (
	"math"

	"github.com/andresuchdata/stockcast/internal/forecast"
	"github.com/shopspring/decimal"
)

// Estimator computes the business impact of a recommendation
type Estimator struct {
	params Params
}

// NewEstimator creates an impact estimator with the given decision constants
func NewEstimator(params Params) *Estimator {
	return &Estimator{params: params}
}

// Estimate compares current stock against the recommendation at unitPrice.
// The heuristics only look at stock levels, not forecastedDemand.
func (e *Estimator) Estimate(currentStock, recommendedStock int, forecastedDemand, unitPrice float64) BusinessImpact {
	overstock := math.Max(0, float64(currentStock)-float64(recommendedStock)*e.params.OverstockTolerance)
	understock := math.Max(0, float64(recommendedStock-currentStock))

	impact := BusinessImpact{
		OverstockReductionPct: int(forecast.Round(overstock / math.Max(float64(currentStock), 1) * 100)),
		StockoutReductionPct:  e.params.StockoutReductionCovered,
	}
	if understock > 0 {
		impact.StockoutReductionPct = e.params.StockoutReductionAtRisk
	}

	price := decimal.NewFromFloat(unitPrice)

	// Excess units tie up holding cost
	impact.CostSavings = decimal.NewFromFloat(overstock).
		Mul(price).
		Mul(decimal.NewFromFloat(e.params.HoldingCostRate)).
		Round(0).
		InexactFloat64()

	// A share of unmet demand is recovered as sales
	if understock > 0 {
		impact.RevenueIncrease = decimal.NewFromFloat(understock).
			Mul(decimal.NewFromFloat(e.params.LostSaleRecoveryRate)).
			Mul(price).
			Round(0).
			InexactFloat64()
	}

	return impact
}
