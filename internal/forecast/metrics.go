package forecast

import "math"

// Evaluate scores predicted against actual over their common prefix.
//
// MAPE skips days where the actual value is zero but still divides by the
// full overlap length, so zero-sales days pull the percentage down instead of
// being excluded.
func Evaluate(actual, predicted []float64) (Metrics, error) {
	n := len(actual)
	if len(predicted) < n {
		n = len(predicted)
	}
	if n == 0 {
		return Metrics{}, ErrEmptySeries
	}

	var absSum, sqSum, pctSum float64
	for i := 0; i < n; i++ {
		diff := actual[i] - predicted[i]
		absSum += math.Abs(diff)
		sqSum += diff * diff
		if actual[i] != 0 {
			pctSum += math.Abs(diff) / actual[i]
		}
	}

	count := float64(n)
	return Metrics{
		MAE:  absSum / count,
		RMSE: math.Sqrt(sqSum / count),
		MAPE: pctSum / count * 100,
	}, nil
}

// Confidence converts MAPE into a 0-100 confidence score
func Confidence(m Metrics) float64 {
	return math.Max(0, 100-m.MAPE)
}
