package forecast

import (
	"math"
	"time"
)

// Round rounds half-up to the nearest integer (2.5 -> 3, -2.5 -> -2).
func Round(v float64) float64 {
	return math.Floor(v + 0.5)
}

func quantities(history []SalesDataPoint) []float64 {
	values := make([]float64, len(history))
	for i, p := range history {
		values[i] = float64(p.QuantitySold)
	}
	return values
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// tomorrow returns the calendar day after now, truncated to midnight in now's location
func tomorrow(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
}

func predictionValues(preds []Prediction) []float64 {
	values := make([]float64, len(preds))
	for i, p := range preds {
		values[i] = p.Value
	}
	return values
}

func newResult(model ModelName, fitted []Prediction, forward Prediction, actual []float64) (Result, error) {
	metrics, err := Evaluate(actual, predictionValues(fitted))
	if err != nil {
		return Result{}, err
	}

	preds := make([]Prediction, 0, len(fitted)+1)
	preds = append(preds, fitted...)
	preds = append(preds, forward)

	return Result{
		Model:       model,
		Predictions: preds,
		Metrics:     metrics,
		Confidence:  Confidence(metrics),
	}, nil
}
