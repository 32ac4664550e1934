package postgres

import (
	"context"
	"fmt"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/andresuchdata/stockcast/internal/repository"
	"github.com/jmoiron/sqlx"
)

type forecastRepository struct {
	db *DB
}

func NewForecastRepository(db *DB) repository.ForecastRepository {
	return &forecastRepository{db: db}
}

func (r *forecastRepository) SaveForecast(ctx context.Context, tenantID string, record *domain.ForecastRecord) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := authorizeShop(ctx, tx, tenantID, record.ShopID); err != nil {
			return err
		}

		if err := productInShop(ctx, tx, record.ShopID, record.ProductID); err != nil {
			return err
		}

		query := `
			INSERT INTO forecasts (
				shop_id, product_id, forecast_date, predicted_demand, recommended_stock,
				safety_stock, risk_level, model_used, confidence_score, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
			RETURNING id, created_at
		`

		err := tx.QueryRowxContext(ctx, query,
			record.ShopID,
			record.ProductID,
			record.ForecastDate,
			record.PredictedDemand,
			record.RecommendedStock,
			record.SafetyStock,
			record.RiskLevel,
			record.ModelUsed,
			record.ConfidenceScore,
		).Scan(&record.ID, &record.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert forecast: %w", err)
		}
		return nil
	})
}

func (r *forecastRepository) ListForecasts(ctx context.Context, tenantID string, shopID, productID int64, limit int) ([]domain.ForecastRecord, error) {
	if err := authorizeShop(ctx, r.db, tenantID, shopID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 30
	}

	query := `
		SELECT id, shop_id, product_id, forecast_date, predicted_demand, recommended_stock,
		       safety_stock, risk_level, model_used, confidence_score, created_at
		FROM forecasts
		WHERE shop_id = $1 AND product_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`

	var records []domain.ForecastRecord
	if err := r.db.SelectContext(ctx, &records, query, shopID, productID, limit); err != nil {
		return nil, fmt.Errorf("error listing forecasts: %w", err)
	}

	return records, nil
}
