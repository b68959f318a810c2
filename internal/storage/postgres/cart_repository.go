package postgres

import (
	"context"
	"fmt"

	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CartRepository struct {
	pool *pgxpool.Pool
}

func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

func (r *CartRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

// GetCart returns an empty cart, not an error, for a user with no lines.
func (r *CartRepository) GetCart(ctx context.Context, userID string) (domain.Cart, error) {
	const q = `
SELECT product_id, product_name, quantity, price_at_addition_cents, added_at
FROM cart_items
WHERE user_id = $1
ORDER BY added_at, product_id`

	rows, err := query(ctx, r.pool, q, userID)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Cart{}, domain.ErrInvalidID
		}
		return domain.Cart{}, fmt.Errorf("get cart: %w", err)
	}
	defer rows.Close()

	cart := domain.Cart{UserID: userID}
	for rows.Next() {
		var it domain.CartItem
		if err := rows.Scan(&it.ProductID, &it.ProductName, &it.Quantity, &it.PriceAtAdditionCents, &it.AddedAt); err != nil {
			return domain.Cart{}, fmt.Errorf("scan cart item: %w", err)
		}
		cart.Items = append(cart.Items, it)
		if it.AddedAt.After(cart.UpdatedAt) {
			cart.UpdatedAt = it.AddedAt
		}
	}
	if err := rows.Err(); err != nil {
		return domain.Cart{}, fmt.Errorf("get cart: %w", err)
	}
	return cart, nil
}

// SaveCart replaces the user's lines with the given cart. Callers wrap it
// in WithTx together with the read that produced the cart.
func (r *CartRepository) SaveCart(ctx context.Context, cart domain.Cart) error {
	if _, err := exec(ctx, r.pool, `DELETE FROM cart_items WHERE user_id = $1`, cart.UserID); err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("clear cart lines: %w", err)
	}

	const stmt = `
INSERT INTO cart_items (user_id, product_id, product_name, quantity, price_at_addition_cents, added_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	for _, it := range cart.Items {
		_, err := exec(ctx, r.pool, stmt,
			cart.UserID, it.ProductID, it.ProductName, it.Quantity, it.PriceAtAdditionCents, it.AddedAt,
		)
		if err != nil {
			if isInvalidUUID(err) {
				return domain.ErrInvalidID
			}
			return fmt.Errorf("insert cart line: %w", err)
		}
	}
	return nil
}
