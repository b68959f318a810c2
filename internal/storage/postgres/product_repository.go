package postgres

import (
	"context"
	"fmt"

	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

func (r *ProductRepository) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	const q = `
SELECT id, seller_id, name, price_cents, stock, created_at, updated_at
FROM products
WHERE id = $1`

	var p domain.Product
	err := queryRow(ctx, r.pool, q, id).Scan(
		&p.ID, &p.SellerID, &p.Name, &p.PriceCents, &p.Stock, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Product{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// CompareAndSwapStock conditions the write on the stock count itself: the
// row is only touched when nobody decremented between the caller's read and
// this write. The stock CHECK constraint backstops against a negative count
// ever reaching disk.
func (r *ProductRepository) CompareAndSwapStock(ctx context.Context, id string, expected, newCount int) error {
	const stmt = `
UPDATE products
SET stock = $3, updated_at = NOW()
WHERE id = $1 AND stock = $2`

	tag, err := exec(ctx, r.pool, stmt, id, expected, newCount)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		if isCheckViolation(err) {
			return domain.ErrInsufficientStock
		}
		return fmt.Errorf("cas stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := queryRow(ctx, r.pool, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("cas stock recheck: %w", err)
		}
		if !exists {
			return domain.ErrProductNotFound
		}
		return domain.ErrVersionConflict
	}
	return nil
}
