package domain

import (
	"time"

	"github.com/andresuchdata/stockcast/internal/engine"
	"github.com/andresuchdata/stockcast/internal/forecast"
)

// Shop is a tenant-owned store. OwnerID is the tenant.
type Shop struct {
	ID        int64     `json:"id" db:"id"`
	OwnerID   string    `json:"owner_id" db:"owner_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Product is an item sold by a shop
type Product struct {
	ID           int64     `json:"id" db:"id"`
	ShopID       int64     `json:"shop_id" db:"shop_id"`
	Name         string    `json:"name" db:"name"`
	SKU          string    `json:"sku" db:"sku"`
	CurrentStock int       `json:"current_stock" db:"current_stock"`
	UnitPrice    float64   `json:"unit_price" db:"unit_price"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// SalesRecord is one stored day of sales
type SalesRecord struct {
	ID           int64     `json:"id" db:"id"`
	ProductID    int64     `json:"product_id" db:"product_id"`
	SaleDate     time.Time `json:"sale_date" db:"sale_date"`
	QuantitySold int       `json:"quantity_sold" db:"quantity_sold"`
	IsFestival   bool      `json:"is_festival" db:"is_festival"`
}

// DataPoint converts the stored row into engine input
func (r SalesRecord) DataPoint() forecast.SalesDataPoint {
	return forecast.SalesDataPoint{
		Date:         r.SaleDate,
		QuantitySold: r.QuantitySold,
		IsFestival:   r.IsFestival,
	}
}

// ForecastRecord is the persisted outcome of a "generate forecast" action
type ForecastRecord struct {
	ID               int64     `json:"id" db:"id"`
	ShopID           int64     `json:"shop_id" db:"shop_id"`
	ProductID        int64     `json:"product_id" db:"product_id"`
	ForecastDate     time.Time `json:"forecast_date" db:"forecast_date"`
	PredictedDemand  float64   `json:"predicted_demand" db:"predicted_demand"`
	RecommendedStock int       `json:"recommended_stock" db:"recommended_stock"`
	SafetyStock      int       `json:"safety_stock" db:"safety_stock"`
	RiskLevel        string    `json:"risk_level" db:"risk_level"`
	ModelUsed        string    `json:"model_used" db:"model_used"`
	ConfidenceScore  float64   `json:"confidence_score" db:"confidence_score"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// NewForecastRecord flattens an evaluation into the persisted shape
func NewForecastRecord(product *Product, eval *engine.Evaluation) *ForecastRecord {
	return &ForecastRecord{
		ShopID:           product.ShopID,
		ProductID:        product.ID,
		ForecastDate:     eval.Forecast.Forward().Date,
		PredictedDemand:  eval.Recommendation.ForecastedDemand,
		RecommendedStock: eval.Recommendation.RecommendedStock,
		SafetyStock:      eval.Recommendation.SafetyStock,
		RiskLevel:        string(eval.Recommendation.RiskLevel),
		ModelUsed:        string(eval.Forecast.Model),
		ConfidenceScore:  eval.Forecast.Confidence,
	}
}

// ProductForecast is an evaluation together with the product it was made for
type ProductForecast struct {
	Product     Product            `json:"product"`
	HistoryDays int                `json:"history_days"`
	GeneratedAt time.Time          `json:"generated_at"`
	Evaluation  *engine.Evaluation `json:"evaluation"`
	Record      *ForecastRecord    `json:"record,omitempty"`
	ReportKey   string             `json:"report_key,omitempty"`
}

// BatchItem reports the outcome of generating one product in a shop-wide run
type BatchItem struct {
	ProductID  int64       `json:"product_id"`
	Status     BatchStatus `json:"status"`
	RiskLevel  string      `json:"risk_level,omitempty"`
	Confidence float64     `json:"confidence,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// BatchResult summarises a shop-wide forecast run
type BatchResult struct {
	ShopID    int64       `json:"shop_id"`
	Generated int         `json:"generated"`
	Skipped   int         `json:"skipped"`
	Failed    int         `json:"failed"`
	Items     []BatchItem `json:"items"`
}
