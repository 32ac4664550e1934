package engine

import (
	"time"

	"github.com/andresuchdata/stockcast/internal/forecast"
	"github.com/andresuchdata/stockcast/internal/insight"
	"github.com/andresuchdata/stockcast/internal/inventory"
)

// Params groups every tunable constant used by the engine
type Params struct {
	Forecast  forecast.Params
	Inventory inventory.Params
	Insight   insight.Params
}

// DefaultParams returns the standard constants for all stages
func DefaultParams() Params {
	return Params{
		Forecast:  forecast.DefaultParams(),
		Inventory: inventory.DefaultParams(),
		Insight:   insight.DefaultParams(),
	}
}

// Evaluation is the full output for one product: forecast, recommendation,
// insights and impact.
type Evaluation struct {
	Forecast       forecast.Result          `json:"forecast"`
	Candidates     []forecast.Result        `json:"candidates"`
	Recommendation inventory.Recommendation `json:"recommendation"`
	Insights       []insight.Insight        `json:"insights"`
	Impact         inventory.BusinessImpact `json:"impact"`
}

// Engine is stateless apart from its constants; it is safe for concurrent use.
type Engine struct {
	selector    *forecast.Selector
	recommender *inventory.Recommender
	estimator   *inventory.Estimator
	simulator   *inventory.Simulator
	insights    *insight.Generator
}

// New creates an engine. now supplies the evaluation date used for the
// forward prediction; nil means time.Now.
func New(params Params, now func() time.Time) *Engine {
	return &Engine{
		selector:    forecast.NewSelector(params.Forecast, now),
		recommender: inventory.NewRecommender(params.Inventory),
		estimator:   inventory.NewEstimator(params.Inventory),
		simulator:   inventory.NewSimulator(params.Inventory),
		insights:    insight.NewGenerator(params.Insight),
	}
}

// Forecast selects the best model for history. It returns
// forecast.ErrInsufficientHistory when history is too short.
func (e *Engine) Forecast(history []forecast.SalesDataPoint) (forecast.Selection, error) {
	return e.selector.Select(history)
}

// Recommend sizes stock for the forward prediction of result
func (e *Engine) Recommend(result forecast.Result, currentStock int) inventory.Recommendation {
	return e.recommender.Recommend(result, currentStock)
}

// Insights explains history and the selected forecast
func (e *Engine) Insights(history []forecast.SalesDataPoint, result forecast.Result) []insight.Insight {
	return e.insights.Generate(history, result)
}

// Impact estimates the monetary effect of moving from currentStock to recommendedStock
func (e *Engine) Impact(currentStock, recommendedStock int, forecastedDemand, unitPrice float64) inventory.BusinessImpact {
	return e.estimator.Estimate(currentStock, recommendedStock, forecastedDemand, unitPrice)
}

// WhatIf re-evaluates rec under a hypothetical stock level and discount
func (e *Engine) WhatIf(rec inventory.Recommendation, stock int, discountPercent, unitPrice float64) (inventory.WhatIfResult, error) {
	return e.simulator.WhatIf(rec, stock, discountPercent, unitPrice)
}

// Evaluate runs forecast, recommendation, insights and impact in sequence
func (e *Engine) Evaluate(history []forecast.SalesDataPoint, currentStock int, unitPrice float64) (*Evaluation, error) {
	selection, err := e.Forecast(history)
	if err != nil {
		return nil, err
	}

	rec := e.Recommend(selection.Best, currentStock)

	return &Evaluation{
		Forecast:       selection.Best,
		Candidates:     selection.Candidates,
		Recommendation: rec,
		Insights:       e.Insights(history, selection.Best),
		Impact:         e.Impact(currentStock, rec.RecommendedStock, rec.ForecastedDemand, unitPrice),
	}, nil
}
