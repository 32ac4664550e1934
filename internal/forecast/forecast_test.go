package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.March, 10, 15, 30, 0, 0, time.UTC)

func makeHistory(quantities ...int) []SalesDataPoint {
	start := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	history := make([]SalesDataPoint, len(quantities))
	for i, q := range quantities {
		history[i] = SalesDataPoint{Date: start.AddDate(0, 0, i), QuantitySold: q}
	}
	return history
}

func TestEvaluate_IdenticalSeries(t *testing.T) {
	series := []float64{3, 0, 7, 12.5}
	m, err := Evaluate(series, series)
	require.NoError(t, err)
	assert.Zero(t, m.MAE)
	assert.Zero(t, m.RMSE)
	assert.Zero(t, m.MAPE)
	assert.Equal(t, 100.0, Confidence(m))
}

func TestEvaluate_TruncatesToShorterSeries(t *testing.T) {
	m, err := Evaluate([]float64{1, 2, 3}, []float64{1, 2})
	require.NoError(t, err)
	assert.Zero(t, m.MAE)
}

func TestEvaluate_ZeroActualCountsInDenominator(t *testing.T) {
	m, err := Evaluate([]float64{0, 10}, []float64{5, 5})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, m.MAE, 1e-9)
	assert.InDelta(t, 25.0, m.MAPE, 1e-9)
}

func TestEvaluate_EmptyOverlap(t *testing.T) {
	_, err := Evaluate(nil, []float64{1})
	assert.ErrorIs(t, err, ErrEmptySeries)
}

func TestConfidence_NeverNegative(t *testing.T) {
	assert.Equal(t, 0.0, Confidence(Metrics{MAPE: 140}))
}

func TestRound_HalfUp(t *testing.T) {
	assert.Equal(t, 3.0, Round(2.5))
	assert.Equal(t, -2.0, Round(-2.5))
	assert.Equal(t, 12.0, Round(12.49))
}

func TestMovingAverage_WorkedExample(t *testing.T) {
	history := makeHistory(10, 12, 11, 13, 14, 12, 15, 16)

	result, err := MovingAverage{Window: 3}.Fit(history, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, ModelMovingAverage, result.Model)
	assert.Equal(t, []float64{11, 12, 13, 13, 14}, predictionValues(result.Fitted()))
	assert.Equal(t, history[3].Date, result.Fitted()[0].Date)

	forward := result.Forward()
	assert.Equal(t, 14.0, forward.Value)
	assert.Equal(t, time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC), forward.Date)

	assert.InDelta(t, 1.8, result.Metrics.MAE, 1e-9)
	assert.InDelta(t, 1.844, result.Metrics.RMSE, 1e-3)
	assert.InDelta(t, 12.77, result.Metrics.MAPE, 1e-2)
	assert.InDelta(t, 87.23, result.Confidence, 1e-2)
}

func TestMovingAverage_HistoryNotLongerThanWindow(t *testing.T) {
	_, err := MovingAverage{Window: 7}.Fit(makeHistory(1, 2, 3, 4, 5, 6, 7), fixedNow)
	assert.ErrorIs(t, err, ErrNoFittedValues)
}

func TestExponentialSmoothing_Fit(t *testing.T) {
	result, err := ExponentialSmoothing{Alpha: 0.3}.Fit(makeHistory(10, 20), fixedNow)
	require.NoError(t, err)

	fitted := predictionValues(result.Fitted())
	require.Len(t, fitted, 2)
	assert.Equal(t, 10.0, fitted[0])
	assert.InDelta(t, 13.0, fitted[1], 1e-9)
	assert.InDelta(t, 13.0, result.Forward().Value, 1e-9)

	assert.InDelta(t, 3.5, result.Metrics.MAE, 1e-9)
	assert.InDelta(t, 17.5, result.Metrics.MAPE, 1e-9)
}

func TestExponentialSmoothing_RejectsBadAlpha(t *testing.T) {
	_, err := ExponentialSmoothing{Alpha: 0}.Fit(makeHistory(1, 2), fixedNow)
	assert.Error(t, err)
}

func TestLinearRegression_Fit(t *testing.T) {
	tests := []struct {
		name    string
		history []SalesDataPoint
		fitted  []float64
		forward float64
	}{
		{
			name:    "increasing line",
			history: makeHistory(2, 4, 6, 8),
			fitted:  []float64{2, 4, 6, 8},
			forward: 10,
		},
		{
			name:    "declining line clamps at zero",
			history: makeHistory(9, 6, 3, 0),
			fitted:  []float64{9, 6, 3, 0},
			forward: 0,
		},
		{
			name:    "flat line",
			history: makeHistory(5, 5, 5),
			fitted:  []float64{5, 5, 5},
			forward: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := LinearRegression{}.Fit(tt.history, fixedNow)
			require.NoError(t, err)
			assert.Equal(t, tt.fitted, predictionValues(result.Fitted()))
			assert.Equal(t, tt.forward, result.Forward().Value)
		})
	}
}

func TestLinearRegression_SinglePoint(t *testing.T) {
	_, err := LinearRegression{}.Fit(makeHistory(4), fixedNow)
	assert.ErrorIs(t, err, ErrDegenerateRegression)
}

func TestSelector_InsufficientHistory(t *testing.T) {
	s := NewSelector(DefaultParams(), func() time.Time { return fixedNow })
	_, err := s.Select(makeHistory(1, 2, 3, 4, 5, 6))
	assert.ErrorIs(t, err, ErrInsufficientHistory)
}

func TestSelector_TieKeepsEvaluationOrder(t *testing.T) {
	s := NewSelector(DefaultParams(), func() time.Time { return fixedNow })

	selection, err := s.Select(makeHistory(5, 5, 5, 5, 5, 5, 5, 5))
	require.NoError(t, err)

	require.Len(t, selection.Candidates, 3)
	for _, c := range selection.Candidates {
		assert.Zero(t, c.Metrics.MAPE)
	}
	assert.Equal(t, ModelMovingAverage, selection.Best.Model)
	assert.Equal(t, ModelExponentialSmoothing, selection.Candidates[1].Model)
	assert.Equal(t, ModelLinearRegression, selection.Candidates[2].Model)
}

func TestSelector_SkipsMovingAverageWithoutFittedValues(t *testing.T) {
	s := NewSelector(DefaultParams(), func() time.Time { return fixedNow })

	selection, err := s.Select(makeHistory(5, 5, 5, 5, 5, 5, 5))
	require.NoError(t, err)

	require.Len(t, selection.Candidates, 2)
	assert.Equal(t, ModelExponentialSmoothing, selection.Best.Model)
}

func TestSelector_PicksLowestMAPE(t *testing.T) {
	s := NewSelector(DefaultParams(), func() time.Time { return fixedNow })

	selection, err := s.Select(makeHistory(1, 2, 3, 4, 5, 6, 7, 8, 9, 10))
	require.NoError(t, err)

	assert.Equal(t, ModelLinearRegression, selection.Best.Model)
	assert.Equal(t, 11.0, selection.Best.Forward().Value)
	for _, c := range selection.Candidates {
		assert.GreaterOrEqual(t, c.Metrics.MAPE, selection.Best.Metrics.MAPE)
	}
}
