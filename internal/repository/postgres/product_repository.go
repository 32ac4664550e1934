package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/andresuchdata/stockcast/internal/repository"
	"github.com/lib/pq"
)

type productRepository struct {
	db *DB
}

func NewProductRepository(db *DB) repository.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) GetProduct(ctx context.Context, tenantID string, shopID, productID int64) (*domain.Product, error) {
	if err := authorizeShop(ctx, r.db, tenantID, shopID); err != nil {
		return nil, err
	}

	query := `
		SELECT id, shop_id, name, sku, current_stock, unit_price, created_at, updated_at
		FROM products
		WHERE id = $1 AND shop_id = $2
	`

	var product domain.Product
	err := r.db.GetContext(ctx, &product, query, productID, shopID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %d: %w", productID, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("error getting product: %w", err)
	}

	return &product, nil
}

// ListProducts returns the shop's products, restricted to productIDs when non-empty
func (r *productRepository) ListProducts(ctx context.Context, tenantID string, shopID int64, productIDs []int64) ([]domain.Product, error) {
	if err := authorizeShop(ctx, r.db, tenantID, shopID); err != nil {
		return nil, err
	}

	query := `
		SELECT id, shop_id, name, sku, current_stock, unit_price, created_at, updated_at
		FROM products
		WHERE shop_id = $1
	`
	args := []interface{}{shopID}

	if len(productIDs) > 0 {
		query += " AND id = ANY($2::bigint[])"
		args = append(args, pq.Array(productIDs))
	}
	query += " ORDER BY id"

	var products []domain.Product
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("error listing products: %w", err)
	}

	return products, nil
}
