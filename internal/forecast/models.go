package forecast

import (
	"fmt"
	"math"
	"time"
)

// Model is one of the three forecasting strategies. The set is closed:
// model selection always fits all of them, see Models.
type Model interface {
	Name() ModelName
	Fit(history []SalesDataPoint, now time.Time) (Result, error)
	isModel()
}

// Models returns the strategies in selection order. Ties in error resolve to
// the earlier entry.
func Models(p Params) []Model {
	return []Model{
		MovingAverage{Window: p.MovingAverageWindow},
		ExponentialSmoothing{Alpha: p.SmoothingAlpha},
		LinearRegression{},
	}
}

// MovingAverage predicts each day as the rounded mean of the preceding Window days
type MovingAverage struct {
	Window int
}

func (MovingAverage) Name() ModelName { return ModelMovingAverage }
func (MovingAverage) isModel()        {}

// Fit returns ErrNoFittedValues when the history is not longer than the window,
// since there is nothing to score against.
func (m MovingAverage) Fit(history []SalesDataPoint, now time.Time) (Result, error) {
	if m.Window < 1 {
		return Result{}, fmt.Errorf("moving average window must be positive, got %d", m.Window)
	}
	if len(history) <= m.Window {
		return Result{}, fmt.Errorf("%s(window=%d) over %d points: %w", ModelMovingAverage, m.Window, len(history), ErrNoFittedValues)
	}

	values := quantities(history)
	fitted := make([]Prediction, 0, len(values)-m.Window)
	for i := m.Window; i < len(values); i++ {
		fitted = append(fitted, Prediction{
			Date:  history[i].Date,
			Value: Round(mean(values[i-m.Window : i])),
		})
	}

	forward := Prediction{
		Date:  tomorrow(now),
		Value: Round(mean(values[len(values)-m.Window:])),
	}

	return newResult(ModelMovingAverage, fitted, forward, values[m.Window:])
}

// ExponentialSmoothing is simple exponential smoothing seeded with the first value
type ExponentialSmoothing struct {
	Alpha float64
}

func (ExponentialSmoothing) Name() ModelName { return ModelExponentialSmoothing }
func (ExponentialSmoothing) isModel()        {}

// Fit records the smoothed level at every index. Values are left unrounded.
func (m ExponentialSmoothing) Fit(history []SalesDataPoint, now time.Time) (Result, error) {
	if m.Alpha <= 0 || m.Alpha > 1 {
		return Result{}, fmt.Errorf("smoothing alpha must be in (0, 1], got %v", m.Alpha)
	}
	if len(history) == 0 {
		return Result{}, ErrNoFittedValues
	}

	values := quantities(history)
	level := values[0]
	fitted := make([]Prediction, len(values))
	fitted[0] = Prediction{Date: history[0].Date, Value: level}
	for i := 1; i < len(values); i++ {
		level = m.Alpha*values[i] + (1-m.Alpha)*level
		fitted[i] = Prediction{Date: history[i].Date, Value: level}
	}

	forward := Prediction{Date: tomorrow(now), Value: level}
	return newResult(ModelExponentialSmoothing, fitted, forward, values)
}

// LinearRegression fits an ordinary least squares line of quantity against day index
type LinearRegression struct{}

func (LinearRegression) Name() ModelName { return ModelLinearRegression }
func (LinearRegression) isModel()        {}

// Fit clamps predictions at zero since negative demand is meaningless.
func (LinearRegression) Fit(history []SalesDataPoint, now time.Time) (Result, error) {
	n := len(history)
	if n < 2 {
		return Result{}, ErrDegenerateRegression
	}

	values := quantities(history)
	slope, intercept := leastSquares(values)

	predict := func(i int) float64 {
		return math.Max(0, Round(slope*float64(i)+intercept))
	}

	fitted := make([]Prediction, n)
	for i := range values {
		fitted[i] = Prediction{Date: history[i].Date, Value: predict(i)}
	}

	forward := Prediction{Date: tomorrow(now), Value: predict(n)}
	return newResult(ModelLinearRegression, fitted, forward, values)
}

func leastSquares(y []float64) (slope, intercept float64) {
	n := float64(len(y))
	var sumX, sumY, sumXY, sumX2 float64
	for i, v := range y {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumX2 += x * x
	}
	slope = (n*sumXY - sumX*sumY) / (n*sumX2 - sumX*sumX)
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}
