package inventory

import "errors"

// ErrInvalidDiscount is returned when a what-if discount is outside the allowed range
var ErrInvalidDiscount = errors.New("discount percent out of range")

// ErrNegativeStock is returned when a stock level below zero is supplied
var ErrNegativeStock = errors.New("stock must not be negative")

// RiskLevel is a coarse classification of inventory adequacy
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Recommendation is the stock level suggested for the forecast period
type Recommendation struct {
	ForecastedDemand float64   `json:"forecasted_demand"`
	RecommendedStock int       `json:"recommended_stock"`
	SafetyStock      int       `json:"safety_stock"`
	RiskLevel        RiskLevel `json:"risk_level"`
	Reasoning        string    `json:"reasoning"`
}

// BusinessImpact estimates the monetary effect of following a recommendation
type BusinessImpact struct {
	OverstockReductionPct int     `json:"overstock_reduction_pct"`
	StockoutReductionPct  int     `json:"stockout_reduction_pct"`
	CostSavings           float64 `json:"cost_savings"`
	RevenueIncrease       float64 `json:"revenue_increase"`
}

// WhatIfResult is a transient re-evaluation under a hypothetical stock and discount
type WhatIfResult struct {
	Stock                    int            `json:"stock"`
	DiscountPercent          float64        `json:"discount_percent"`
	AdjustedDemand           float64        `json:"adjusted_demand"`
	AdjustedRecommendedStock int            `json:"adjusted_recommended_stock"`
	SafetyStock              int            `json:"safety_stock"`
	EffectivePrice           float64        `json:"effective_price"`
	RiskLevel                RiskLevel      `json:"risk_level"`
	Reasoning                string         `json:"reasoning"`
	Impact                   BusinessImpact `json:"impact"`
}

// Params holds the decision-rule constants. Percent-style fields are fractions
// unless their name says Pct.
type Params struct {
	// Safety stock bands keyed on forecast confidence (0-100)
	HighConfidence      float64
	MediumConfidence    float64
	SafetyStockHigh     float64 // used when confidence > HighConfidence
	SafetyStockMedium   float64 // used when confidence > MediumConfidence
	SafetyStockLow      float64
	OverstockRiskFactor float64 // stock >= recommended * factor is overstock
	StockoutRiskFactor  float64 // stock < demand * factor is a stockout risk

	OverstockTolerance       float64 // stock above recommended * tolerance counts as excess
	HoldingCostRate          float64
	LostSaleRecoveryRate     float64
	StockoutReductionAtRisk  int
	StockoutReductionCovered int

	DiscountElasticity float64 // demand lift per unit of discount fraction
	MaxDiscountPct     float64
}

// DefaultParams returns the standard decision-rule constants
func DefaultParams() Params {
	return Params{
		HighConfidence:           80,
		MediumConfidence:         60,
		SafetyStockHigh:          0.10,
		SafetyStockMedium:        0.15,
		SafetyStockLow:           0.20,
		OverstockRiskFactor:      1.5,
		StockoutRiskFactor:       0.8,
		OverstockTolerance:       1.2,
		HoldingCostRate:          0.15,
		LostSaleRecoveryRate:     0.3,
		StockoutReductionAtRisk:  75,
		StockoutReductionCovered: 95,
		DiscountElasticity:       0.5,
		MaxDiscountPct:           50,
	}
}
