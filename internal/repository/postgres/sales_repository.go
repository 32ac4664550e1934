package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/andresuchdata/stockcast/internal/repository"
	"github.com/jmoiron/sqlx"
)

type salesRepository struct {
	db *DB
}

func NewSalesRepository(db *DB) repository.SalesRepository {
	return &salesRepository{db: db}
}

func (r *salesRepository) GetSalesHistory(ctx context.Context, tenantID string, shopID, productID int64, since time.Time) ([]domain.SalesRecord, error) {
	if err := authorizeShop(ctx, r.db, tenantID, shopID); err != nil {
		return nil, err
	}

	query := `
		SELECT s.id, s.product_id, s.sale_date, s.quantity_sold, s.is_festival
		FROM sales_data s
		JOIN products p ON p.id = s.product_id
		WHERE s.product_id = $1 AND p.shop_id = $2
	`
	args := []interface{}{productID, shopID}

	if !since.IsZero() {
		query += " AND s.sale_date >= $3::date"
		args = append(args, since)
	}
	query += " ORDER BY s.sale_date ASC"

	var records []domain.SalesRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("error getting sales history: %w", err)
	}

	return records, nil
}

// UpsertSales writes one row per product and date, replacing existing days
func (r *salesRepository) UpsertSales(ctx context.Context, tenantID string, shopID, productID int64, records []domain.SalesRecord) (int, error) {
	written := 0
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := authorizeShop(ctx, tx, tenantID, shopID); err != nil {
			return err
		}

		if err := productInShop(ctx, tx, shopID, productID); err != nil {
			return err
		}

		stmt, err := tx.PreparexContext(ctx, `
			INSERT INTO sales_data (product_id, sale_date, quantity_sold, is_festival)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (product_id, sale_date)
			DO UPDATE SET
				quantity_sold = EXCLUDED.quantity_sold,
				is_festival = EXCLUDED.is_festival
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, rec := range records {
			if _, err := stmt.ExecContext(ctx, productID, rec.SaleDate, rec.QuantitySold, rec.IsFestival); err != nil {
				return fmt.Errorf("failed to upsert sales for %s: %w", rec.SaleDate.Format("2006-01-02"), err)
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return written, nil
}
