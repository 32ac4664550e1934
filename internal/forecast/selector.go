package forecast

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// Selection is the winning model plus every model that was compared
type Selection struct {
	Best       Result   `json:"best"`
	Candidates []Result `json:"candidates"`
}

// Selector runs every model over the same history and keeps the lowest MAPE
type Selector struct {
	params Params
	now    func() time.Time
}

// NewSelector creates a selector. now defaults to time.Now.
func NewSelector(params Params, now func() time.Time) *Selector {
	if now == nil {
		now = time.Now
	}
	return &Selector{params: params, now: now}
}

// Select fits the models in order moving average, exponential smoothing,
// linear regression and returns the one with the lowest MAPE. Equal MAPE keeps
// that order. A model with no fitted values is left out of the comparison.
func (s *Selector) Select(history []SalesDataPoint) (Selection, error) {
	if len(history) < s.params.MinHistory {
		return Selection{}, fmt.Errorf("have %d days, need %d: %w", len(history), s.params.MinHistory, ErrInsufficientHistory)
	}

	now := s.now()
	candidates := make([]Result, 0, 3)
	for _, m := range Models(s.params) {
		result, err := m.Fit(history, now)
		if errors.Is(err, ErrNoFittedValues) {
			continue
		}
		if err != nil {
			return Selection{}, fmt.Errorf("fit %s: %w", m.Name(), err)
		}
		candidates = append(candidates, result)
	}
	if len(candidates) == 0 {
		return Selection{}, ErrInsufficientHistory
	}

	ranked := append([]Result(nil), candidates...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Metrics.MAPE < ranked[j].Metrics.MAPE
	})

	return Selection{Best: ranked[0], Candidates: candidates}, nil
}
