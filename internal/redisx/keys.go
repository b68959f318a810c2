package redisx

import "time"

const (
	// Checkout idempotency fast-path: idem:checkout:{key} -> order_id.
	// The unique column on orders is the source of truth; this only saves a
	// round trip on retries.
	KeyIdemCheckout = "idem:checkout:%s"

	// Auction snapshot cache: auction:{auction_id} -> JSON snapshot.
	KeyAuctionSnapshot = "auction:%s"
)

var (
	TTLIdempotency     = 24 * time.Hour
	TTLAuctionSnapshot = 5 * time.Second
)
