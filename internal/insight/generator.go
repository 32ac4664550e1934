package insight

import (
	"fmt"
	"math"

	"github.com/andresuchdata/stockcast/internal/forecast"
)

// Type categorises an insight
type Type string

const (
	TypeTrend    Type = "trend"
	TypeFestival Type = "festival"
	TypeAnomaly  Type = "anomaly"
	TypeSeasonal Type = "seasonal"
)

// Impact is the direction an insight pushes the business
type Impact string

const (
	ImpactPositive Impact = "positive"
	ImpactNegative Impact = "negative"
	ImpactNeutral  Impact = "neutral"
)

// Insight is a human readable observation about a product's sales
type Insight struct {
	Type        Type   `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Actionable  string `json:"actionable"`
	Impact      Impact `json:"impact"`
}

// Params holds the insight trigger thresholds
type Params struct {
	TrendWindow            int     // recent days compared against the whole history
	TrendThreshold         float64 // relative change that counts as a trend
	FestivalLiftThreshold  float64 // relative lift of festival days over normal days
	AnomalyHighFactor      float64 // max above mean * factor is a spike
	AnomalyLowFactor       float64 // min below mean * factor is a slump
	LowConfidenceThreshold float64
}

// DefaultParams returns the standard insight thresholds
func DefaultParams() Params {
	return Params{
		TrendWindow:            7,
		TrendThreshold:         0.15,
		FestivalLiftThreshold:  0.30,
		AnomalyHighFactor:      2,
		AnomalyLowFactor:       0.3,
		LowConfidenceThreshold: 70,
	}
}

// Generator derives insights from sales history and the selected forecast
type Generator struct {
	params Params
}

// NewGenerator creates an insight generator
func NewGenerator(params Params) *Generator {
	return &Generator{params: params}
}

// Generate evaluates each rule independently and returns matches in the order
// trend, festival, anomaly, confidence. The result is never nil.
func (g *Generator) Generate(history []forecast.SalesDataPoint, result forecast.Result) []Insight {
	insights := make([]Insight, 0, 4)
	if len(history) == 0 {
		return insights
	}

	values := make([]float64, len(history))
	for i, p := range history {
		values[i] = float64(p.QuantitySold)
	}
	overallAvg := average(values)

	if in, ok := g.trend(values, overallAvg); ok {
		insights = append(insights, in)
	}
	if in, ok := g.festival(history); ok {
		insights = append(insights, in)
	}
	if in, ok := g.anomaly(values, overallAvg); ok {
		insights = append(insights, in)
	}
	if result.Confidence < g.params.LowConfidenceThreshold {
		insights = append(insights, Insight{
			Type:        TypeSeasonal,
			Title:       "Low forecast confidence",
			Description: fmt.Sprintf("The %s model reached only %.1f%% confidence on this product's history. Demand may follow seasonal or irregular patterns the models cannot capture.", result.Model, result.Confidence),
			Actionable:  "Review the recommendation manually and keep recording daily sales to improve accuracy.",
			Impact:      ImpactNeutral,
		})
	}

	return insights
}

func (g *Generator) trend(values []float64, overallAvg float64) (Insight, bool) {
	if overallAvg == 0 {
		return Insight{}, false
	}

	window := g.params.TrendWindow
	if window > len(values) {
		window = len(values)
	}
	recentAvg := average(values[len(values)-window:])
	change := (recentAvg - overallAvg) / overallAvg
	if math.Abs(change) <= g.params.TrendThreshold {
		return Insight{}, false
	}

	if change > 0 {
		return Insight{
			Type:        TypeTrend,
			Title:       "Sales are increasing",
			Description: fmt.Sprintf("The last %d days averaged %.1f units/day, %.0f%% above the overall average of %.1f.", window, recentAvg, change*100, overallAvg),
			Actionable:  "Increase stock ahead of the next reorder to avoid running out.",
			Impact:      ImpactPositive,
		}, true
	}
	return Insight{
		Type:        TypeTrend,
		Title:       "Sales are decreasing",
		Description: fmt.Sprintf("The last %d days averaged %.1f units/day, %.0f%% below the overall average of %.1f.", window, recentAvg, -change*100, overallAvg),
		Actionable:  "Reduce the next order or run a promotion to clear existing stock.",
		Impact:      ImpactNegative,
	}, true
}

func (g *Generator) festival(history []forecast.SalesDataPoint) (Insight, bool) {
	var festival, regular []float64
	for _, p := range history {
		if p.IsFestival {
			festival = append(festival, float64(p.QuantitySold))
		} else {
			regular = append(regular, float64(p.QuantitySold))
		}
	}
	if len(festival) == 0 || len(regular) == 0 {
		return Insight{}, false
	}

	festivalAvg := average(festival)
	regularAvg := average(regular)
	if regularAvg == 0 {
		if festivalAvg == 0 {
			return Insight{}, false
		}
	} else if (festivalAvg-regularAvg)/regularAvg <= g.params.FestivalLiftThreshold {
		return Insight{}, false
	}

	description := fmt.Sprintf("Festival days averaged %.1f units against %.1f on regular days.", festivalAvg, regularAvg)
	if regularAvg > 0 {
		description = fmt.Sprintf("Festival days averaged %.1f units, %.0f%% more than the %.1f sold on regular days.",
			festivalAvg, (festivalAvg-regularAvg)/regularAvg*100, regularAvg)
	}

	return Insight{
		Type:        TypeFestival,
		Title:       "Festival demand spike",
		Description: description,
		Actionable:  "Stock up before upcoming festivals to capture the extra demand.",
		Impact:      ImpactPositive,
	}, true
}

func (g *Generator) anomaly(values []float64, overallAvg float64) (Insight, bool) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	if hi <= overallAvg*g.params.AnomalyHighFactor && lo >= overallAvg*g.params.AnomalyLowFactor {
		return Insight{}, false
	}

	return Insight{
		Type:        TypeAnomaly,
		Title:       "Volatile sales pattern",
		Description: fmt.Sprintf("Daily sales ranged from %.0f to %.0f units around an average of %.1f.", lo, hi, overallAvg),
		Actionable:  "Check for one-off bulk orders or stock outages before relying on the forecast.",
		Impact:      ImpactNeutral,
	}, true
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
