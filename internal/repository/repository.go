package repository

import (
	"context"
	"errors"
	"time"

	"github.com/andresuchdata/stockcast/internal/domain"
)

var (
	// ErrNotFound is returned when a shop or product does not exist
	ErrNotFound = errors.New("not found")
	// ErrShopAccessDenied is returned when the tenant does not own the shop
	ErrShopAccessDenied = errors.New("shop does not belong to tenant")
)

// Every method takes the tenant making the call and checks shop ownership
// before touching shop data.

type ProductRepository interface {
	GetProduct(ctx context.Context, tenantID string, shopID, productID int64) (*domain.Product, error)
	ListProducts(ctx context.Context, tenantID string, shopID int64, productIDs []int64) ([]domain.Product, error)
}

type SalesRepository interface {
	// GetSalesHistory returns sales ordered by date ascending. A zero since loads everything.
	GetSalesHistory(ctx context.Context, tenantID string, shopID, productID int64, since time.Time) ([]domain.SalesRecord, error)
	UpsertSales(ctx context.Context, tenantID string, shopID, productID int64, records []domain.SalesRecord) (int, error)
}

type ForecastRepository interface {
	// SaveForecast appends a record; existing records are never updated.
	SaveForecast(ctx context.Context, tenantID string, record *domain.ForecastRecord) error
	ListForecasts(ctx context.Context, tenantID string, shopID, productID int64, limit int) ([]domain.ForecastRecord, error)
}
