package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/clock"
	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/domain"
	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/redisx"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

type AuctionGetter interface {
	GetAuction(ctx context.Context, id string) (domain.Auction, error)
}

// AuctionCache is a read-through cache for auction snapshots on the hot
// read path. Singleflight collapses a stampede of concurrent misses for one
// auction into a single store read. The bidding path never goes through
// here: a short-lived stale snapshot is fine for browsing, not for
// validating money.
type AuctionCache struct {
	rdb   *redis.Client
	inner AuctionGetter
	clock clock.Clock
	group singleflight.Group
	ttl   time.Duration
}

func NewAuctionCache(rdb *redis.Client, inner AuctionGetter, clk clock.Clock) *AuctionCache {
	return &AuctionCache{rdb: rdb, inner: inner, clock: clk, ttl: redisx.TTLAuctionSnapshot}
}

type auctionSnapshot struct {
	ID                string               `json:"id"`
	SellerID          string               `json:"seller_id"`
	Title             string               `json:"title"`
	StartPriceCents   int64                `json:"start_price_cents"`
	CurrentPriceCents int64                `json:"current_price_cents"`
	ReservePriceCents *int64               `json:"reserve_price_cents,omitempty"`
	StartsAt          time.Time            `json:"starts_at"`
	EndsAt            time.Time            `json:"ends_at"`
	Status            domain.AuctionStatus `json:"status"`
	BidCount          int                  `json:"bid_count"`
	Version           int64                `json:"version"`
	CreatedAt         time.Time            `json:"created_at"`
}

func (c *AuctionCache) GetAuction(ctx context.Context, id string) (domain.Auction, error) {
	a, err := c.lookup(ctx, id)
	if err != nil {
		return domain.Auction{}, err
	}
	// A snapshot may outlive a status boundary within its TTL; the status
	// served is always re-derived from the window, never the stored one.
	a.Status = domain.EffectiveStatus(a, c.clock.Now())
	return a, nil
}

func (c *AuctionCache) lookup(ctx context.Context, id string) (domain.Auction, error) {
	key := fmt.Sprintf(redisx.KeyAuctionSnapshot, id)

	if raw, err := redisx.GetString(ctx, c.rdb, key); err == nil && raw != "" {
		var snap auctionSnapshot
		if err := json.Unmarshal([]byte(raw), &snap); err == nil {
			return snap.toDomain(), nil
		}
	}

	v, err, _ := c.group.Do(id, func() (any, error) {
		a, err := c.inner.GetAuction(ctx, id)
		if err != nil {
			return nil, err
		}
		if b, err := json.Marshal(fromDomain(a)); err == nil {
			_ = redisx.SetString(ctx, c.rdb, key, string(b), c.ttl)
		}
		return a, nil
	})
	if err != nil {
		return domain.Auction{}, err
	}
	return v.(domain.Auction), nil
}

// Invalidate drops the snapshot after a write so the next read re-derives.
func (c *AuctionCache) Invalidate(ctx context.Context, id string) {
	_ = redisx.Delete(ctx, c.rdb, fmt.Sprintf(redisx.KeyAuctionSnapshot, id))
}

func fromDomain(a domain.Auction) auctionSnapshot {
	return auctionSnapshot{
		ID:                a.ID,
		SellerID:          a.SellerID,
		Title:             a.Title,
		StartPriceCents:   a.StartPriceCents,
		CurrentPriceCents: a.CurrentPriceCents,
		ReservePriceCents: a.ReservePriceCents,
		StartsAt:          a.StartsAt,
		EndsAt:            a.EndsAt,
		Status:            a.Status,
		BidCount:          a.BidCount,
		Version:           a.Version,
		CreatedAt:         a.CreatedAt,
	}
}

func (s auctionSnapshot) toDomain() domain.Auction {
	return domain.Auction{
		ID:                s.ID,
		SellerID:          s.SellerID,
		Title:             s.Title,
		StartPriceCents:   s.StartPriceCents,
		CurrentPriceCents: s.CurrentPriceCents,
		ReservePriceCents: s.ReservePriceCents,
		StartsAt:          s.StartsAt,
		EndsAt:            s.EndsAt,
		Status:            s.Status,
		BidCount:          s.BidCount,
		Version:           s.Version,
		CreatedAt:         s.CreatedAt,
	}
}
