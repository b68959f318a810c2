package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AuctionRepository struct {
	pool *pgxpool.Pool
}

func NewAuctionRepository(pool *pgxpool.Pool) *AuctionRepository {
	return &AuctionRepository{pool: pool}
}

func (r *AuctionRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *AuctionRepository) CreateAuction(ctx context.Context, a domain.Auction) error {
	const stmt = `
INSERT INTO auctions
	(id, seller_id, title, start_price_cents, current_price_cents, reserve_price_cents,
	 starts_at, ends_at, status, bid_count, version, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := exec(ctx, r.pool, stmt,
		a.ID, a.SellerID, a.Title, a.StartPriceCents, a.CurrentPriceCents, a.ReservePriceCents,
		a.StartsAt, a.EndsAt, a.Status, a.BidCount, a.Version, a.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create auction: %w", err)
	}
	return nil
}

func (r *AuctionRepository) GetAuction(ctx context.Context, id string) (domain.Auction, error) {
	const q = `
SELECT id, seller_id, title, start_price_cents, current_price_cents, reserve_price_cents,
       starts_at, ends_at, status, bid_count, version, created_at
FROM auctions
WHERE id = $1`

	var (
		a      domain.Auction
		status string
	)
	err := queryRow(ctx, r.pool, q, id).Scan(
		&a.ID, &a.SellerID, &a.Title, &a.StartPriceCents, &a.CurrentPriceCents, &a.ReservePriceCents,
		&a.StartsAt, &a.EndsAt, &status, &a.BidCount, &a.Version, &a.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Auction{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Auction{}, domain.ErrAuctionNotFound
		}
		return domain.Auction{}, fmt.Errorf("get auction: %w", err)
	}
	a.Status = domain.AuctionStatus(status)
	return a, nil
}

// CompareAndSwapAuction writes the mutable auction fields only when the
// stored version still equals expectedVersion. The swap covers price,
// status, start time and bid count together, which is what makes a bid's
// validate-then-write a single atomic step.
func (r *AuctionRepository) CompareAndSwapAuction(ctx context.Context, expectedVersion int64, a domain.Auction) error {
	const stmt = `
UPDATE auctions
SET current_price_cents = $3,
    status = $4,
    starts_at = $5,
    bid_count = $6,
    version = $2 + 1
WHERE id = $1 AND version = $2`

	tag, err := exec(ctx, r.pool, stmt,
		a.ID, expectedVersion, a.CurrentPriceCents, a.Status, a.StartsAt, a.BidCount,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("cas auction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := queryRow(ctx, r.pool, `SELECT EXISTS (SELECT 1 FROM auctions WHERE id = $1)`, a.ID).Scan(&exists); err != nil {
			return fmt.Errorf("cas auction recheck: %w", err)
		}
		if !exists {
			return domain.ErrAuctionNotFound
		}
		return domain.ErrVersionConflict
	}
	return nil
}

func (r *AuctionRepository) InsertBid(ctx context.Context, bid domain.Bid) error {
	const stmt = `
INSERT INTO bids (id, auction_id, bidder_id, amount_cents, created_at)
VALUES ($1, $2, $3, $4, $5)`

	_, err := exec(ctx, r.pool, stmt, bid.ID, bid.AuctionID, bid.BidderID, bid.AmountCents, bid.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("insert bid: %w", err)
	}
	return nil
}

// ListBids returns bids in arrival order at the ledger (seq), not by
// timestamp: clocks are not a synchronization primitive.
func (r *AuctionRepository) ListBids(ctx context.Context, auctionID string) ([]domain.Bid, error) {
	const q = `
SELECT id, auction_id, bidder_id, amount_cents, created_at
FROM bids
WHERE auction_id = $1
ORDER BY seq`

	rows, err := query(ctx, r.pool, q, auctionID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list bids: %w", err)
	}
	defer rows.Close()

	var out []domain.Bid
	for rows.Next() {
		var b domain.Bid
		if err := rows.Scan(&b.ID, &b.AuctionID, &b.BidderID, &b.AmountCents, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan bid: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list bids: %w", err)
	}
	return out, nil
}

func (r *AuctionRepository) ListStatusLagging(ctx context.Context, now time.Time, limit int) ([]domain.Auction, error) {
	const q = `
SELECT id, seller_id, title, start_price_cents, current_price_cents, reserve_price_cents,
       starts_at, ends_at, status, bid_count, version, created_at
FROM auctions
WHERE (status = 'upcoming' AND starts_at <= $1)
   OR (status = 'live' AND ends_at <= $1)
ORDER BY ends_at
LIMIT $2`

	rows, err := query(ctx, r.pool, q, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list lagging auctions: %w", err)
	}
	defer rows.Close()

	var out []domain.Auction
	for rows.Next() {
		var (
			a      domain.Auction
			status string
		)
		if err := rows.Scan(
			&a.ID, &a.SellerID, &a.Title, &a.StartPriceCents, &a.CurrentPriceCents, &a.ReservePriceCents,
			&a.StartsAt, &a.EndsAt, &status, &a.BidCount, &a.Version, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan auction: %w", err)
		}
		a.Status = domain.AuctionStatus(status)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list lagging auctions: %w", err)
	}
	return out, nil
}
