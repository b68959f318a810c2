package domain

import "time"

// Bid is one accepted entry in an auction's append-only ledger. Immutable
// once appended; for any two bids in ledger order the later amount is
// strictly greater.
type Bid struct {
	ID          string
	AuctionID   string
	BidderID    string
	AmountCents int64
	CreatedAt   time.Time
}
