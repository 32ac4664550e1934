package forecast

import (
	"errors"
	"time"
)

var (
	// ErrInsufficientHistory is returned when a product has too few sales days to select a model.
	ErrInsufficientHistory = errors.New("insufficient sales history")
	// ErrEmptySeries is returned when metrics are requested for sequences with no overlap.
	ErrEmptySeries = errors.New("no overlapping values to score")
	// ErrNoFittedValues is returned by a model that could not produce any in-sample prediction.
	ErrNoFittedValues = errors.New("model produced no fitted values")
	// ErrDegenerateRegression is returned when a regression line cannot be fitted.
	ErrDegenerateRegression = errors.New("regression needs at least two points")
)

// ModelName identifies one of the supported forecasting strategies
type ModelName string

const (
	ModelMovingAverage        ModelName = "Moving Average"
	ModelExponentialSmoothing ModelName = "Exponential Smoothing"
	ModelLinearRegression     ModelName = "Linear Regression"
)

// SalesDataPoint is one day of sales for a single product
type SalesDataPoint struct {
	Date         time.Time `json:"date"`
	QuantitySold int       `json:"quantity_sold"`
	IsFestival   bool      `json:"is_festival"`
}

// Prediction is a fitted or forward value for a date
type Prediction struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Metrics holds forecast accuracy aggregates
type Metrics struct {
	MAE  float64 `json:"mae"`
	RMSE float64 `json:"rmse"`
	MAPE float64 `json:"mape"` // percentage, 0-100+
}

// Result is the output of fitting one model to a history.
// The last prediction is always the forward forecast for tomorrow.
type Result struct {
	Model       ModelName    `json:"model"`
	Predictions []Prediction `json:"predictions"`
	Metrics     Metrics      `json:"metrics"`
	Confidence  float64      `json:"confidence"`
}

// Forward returns the forward (tomorrow) prediction
func (r Result) Forward() Prediction {
	if len(r.Predictions) == 0 {
		return Prediction{}
	}
	return r.Predictions[len(r.Predictions)-1]
}

// Fitted returns the in-sample predictions, excluding the forward one
func (r Result) Fitted() []Prediction {
	if len(r.Predictions) == 0 {
		return nil
	}
	return r.Predictions[:len(r.Predictions)-1]
}

// Params holds the tunable forecasting constants
type Params struct {
	MovingAverageWindow int     // days averaged by the moving average model
	SmoothingAlpha      float64 // exponential smoothing factor, 0 < alpha <= 1
	MinHistory          int     // minimum sales days required to run model selection
}

// DefaultParams returns the stock forecasting constants
func DefaultParams() Params {
	return Params{
		MovingAverageWindow: 7,
		SmoothingAlpha:      0.3,
		MinHistory:          7,
	}
}
