package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andresuchdata/stockcast/internal/repository"
	"github.com/jmoiron/sqlx"
)

// authorizeShop verifies that shopID exists and is owned by tenantID. It runs
// before any query that reads or writes shop data.
func authorizeShop(ctx context.Context, q sqlx.QueryerContext, tenantID string, shopID int64) error {
	if tenantID == "" {
		return repository.ErrShopAccessDenied
	}

	var ownerID string
	err := sqlx.GetContext(ctx, q, &ownerID, `SELECT owner_id FROM shops WHERE id = $1`, shopID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("shop %d: %w", shopID, repository.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("error loading shop %d: %w", shopID, err)
	}

	if ownerID != tenantID {
		return fmt.Errorf("shop %d: %w", shopID, repository.ErrShopAccessDenied)
	}
	return nil
}

func productInShop(ctx context.Context, q sqlx.QueryerContext, shopID, productID int64) error {
	var exists bool
	err := sqlx.GetContext(ctx, q, &exists,
		`SELECT EXISTS(SELECT 1 FROM products WHERE id = $1 AND shop_id = $2)`, productID, shopID)
	if err != nil {
		return fmt.Errorf("error checking product %d: %w", productID, err)
	}
	if !exists {
		return fmt.Errorf("product %d: %w", productID, repository.ErrNotFound)
	}
	return nil
}
