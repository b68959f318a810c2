package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *OrderRepository) CreateOrder(ctx context.Context, order domain.Order) error {
	const orderStmt = `
INSERT INTO orders (id, user_id, total_cents, idempotency_key, is_paid, is_delivered, created_at)
VALUES ($1, $2, $3, $4, FALSE, FALSE, $5)`

	if _, err := exec(ctx, r.pool, orderStmt,
		order.ID, order.UserID, order.TotalCents, order.IdempotencyKey, order.CreatedAt,
	); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrIdempotencyConflict
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create order: %w", err)
	}

	const lineStmt = `
INSERT INTO order_lines (order_id, line_no, product_id, product_name, quantity, unit_price_cents)
VALUES ($1, $2, $3, $4, $5, $6)`

	for i, l := range order.Lines {
		if _, err := exec(ctx, r.pool, lineStmt,
			order.ID, i+1, l.ProductID, l.ProductName, l.Quantity, l.UnitPriceCents,
		); err != nil {
			return fmt.Errorf("create order line: %w", err)
		}
	}
	return nil
}

func (r *OrderRepository) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	const q = `
SELECT id, user_id, total_cents, idempotency_key, is_paid, paid_at, is_delivered, delivered_at, created_at
FROM orders
WHERE id = $1`

	var o domain.Order
	err := queryRow(ctx, r.pool, q, id).Scan(
		&o.ID, &o.UserID, &o.TotalCents, &o.IdempotencyKey,
		&o.IsPaid, &o.PaidAt, &o.IsDelivered, &o.DeliveredAt, &o.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Order{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}

	lines, err := r.loadLines(ctx, o.ID)
	if err != nil {
		return domain.Order{}, err
	}
	o.Lines = lines
	return o, nil
}

func (r *OrderRepository) GetOrderByIdempotencyKey(ctx context.Context, key string) (*domain.Order, error) {
	const q = `SELECT id FROM orders WHERE idempotency_key = $1`

	var id string
	err := queryRow(ctx, r.pool, q, key).Scan(&id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find order by idempotency key: %w", err)
	}

	o, err := r.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) ClearCart(ctx context.Context, userID string) error {
	if _, err := exec(ctx, r.pool, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// MarkOrderPaid flips the paid flag forward. Returns false when the order
// was already paid (not an error: flags are monotonic).
func (r *OrderRepository) MarkOrderPaid(ctx context.Context, id string, at time.Time) (bool, error) {
	const stmt = `
UPDATE orders SET is_paid = TRUE, paid_at = $2
WHERE id = $1 AND is_paid = FALSE`

	tag, err := exec(ctx, r.pool, stmt, id, at)
	if err != nil {
		if isInvalidUUID(err) {
			return false, domain.ErrInvalidID
		}
		return false, fmt.Errorf("mark order paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, r.requireOrder(ctx, id)
	}
	return true, nil
}

func (r *OrderRepository) MarkOrderDelivered(ctx context.Context, id string, at time.Time) (bool, error) {
	const stmt = `
UPDATE orders SET is_delivered = TRUE, delivered_at = $2
WHERE id = $1 AND is_delivered = FALSE`

	tag, err := exec(ctx, r.pool, stmt, id, at)
	if err != nil {
		if isInvalidUUID(err) {
			return false, domain.ErrInvalidID
		}
		return false, fmt.Errorf("mark order delivered: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, r.requireOrder(ctx, id)
	}
	return true, nil
}

func (r *OrderRepository) loadLines(ctx context.Context, orderID string) ([]domain.OrderLine, error) {
	const q = `
SELECT product_id, product_name, quantity, unit_price_cents
FROM order_lines
WHERE order_id = $1
ORDER BY line_no`

	rows, err := query(ctx, r.pool, q, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.ProductID, &l.ProductName, &l.Quantity, &l.UnitPriceCents); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load order lines: %w", err)
	}
	return lines, nil
}

func (r *OrderRepository) requireOrder(ctx context.Context, id string) error {
	var exists bool
	if err := queryRow(ctx, r.pool, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check order: %w", err)
	}
	if !exists {
		return domain.ErrOrderNotFound
	}
	return nil
}
