package inventory

import (
	"fmt"

	"github.com/andresuchdata/stockcast/internal/forecast"
)

// Simulator re-evaluates a recommendation under hypothetical stock and discount
// levels without refitting the forecast.
type Simulator struct {
	params      Params
	recommender *Recommender
	estimator   *Estimator
}

// NewSimulator creates a what-if simulator
func NewSimulator(params Params) *Simulator {
	return &Simulator{
		params:      params,
		recommender: NewRecommender(params),
		estimator:   NewEstimator(params),
	}
}

// WhatIf applies discountPercent (0..MaxDiscountPct) as a demand lift and a
// price cut. The original safety stock is kept as is.
func (s *Simulator) WhatIf(rec Recommendation, stock int, discountPercent, unitPrice float64) (WhatIfResult, error) {
	if stock < 0 {
		return WhatIfResult{}, ErrNegativeStock
	}
	if discountPercent < 0 || discountPercent > s.params.MaxDiscountPct {
		return WhatIfResult{}, fmt.Errorf("%v not in [0, %v]: %w", discountPercent, s.params.MaxDiscountPct, ErrInvalidDiscount)
	}

	discount := discountPercent / 100
	adjustedDemand := rec.ForecastedDemand * (1 + discount*s.params.DiscountElasticity)
	adjustedRecommended := int(forecast.Round(adjustedDemand + float64(rec.SafetyStock)))
	effectivePrice := unitPrice * (1 - discount)

	risk, reasoning := s.recommender.classify(stock, adjustedRecommended, adjustedDemand)

	return WhatIfResult{
		Stock:                    stock,
		DiscountPercent:          discountPercent,
		AdjustedDemand:           adjustedDemand,
		AdjustedRecommendedStock: adjustedRecommended,
		SafetyStock:              rec.SafetyStock,
		EffectivePrice:           effectivePrice,
		RiskLevel:                risk,
		Reasoning:                reasoning,
		Impact:                   s.estimator.Estimate(stock, adjustedRecommended, adjustedDemand, effectivePrice),
	}, nil
}
