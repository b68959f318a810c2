package domain

import "time"

type AuctionStatus string

const (
	AuctionStatusUpcoming  AuctionStatus = "upcoming"
	AuctionStatusLive      AuctionStatus = "live"
	AuctionStatusEnded     AuctionStatus = "ended"
	AuctionStatusCancelled AuctionStatus = "cancelled"
)

// Auction is a time-bounded listing whose price is set by competing bids.
// Status is a cached derivation of (StartsAt, EndsAt, stored status, now);
// EffectiveStatus is authoritative, the stored value is never trusted alone.
type Auction struct {
	ID                string
	SellerID          string
	Title             string
	StartPriceCents   int64
	CurrentPriceCents int64
	// ReservePriceCents, when set, gates settlement only. It never blocks a bid.
	ReservePriceCents *int64
	StartsAt          time.Time
	EndsAt            time.Time
	Status            AuctionStatus
	BidCount          int
	// Version guards every concurrent write to this record (optimistic CAS).
	Version   int64
	CreatedAt time.Time
}

// EffectiveStatus derives the auction status at the given instant. Pure:
// repeated calls with the same inputs agree regardless of what has been
// materialized in the store.
func EffectiveStatus(a Auction, now time.Time) AuctionStatus {
	if a.Status == AuctionStatusCancelled {
		return AuctionStatusCancelled
	}
	status := a.Status
	if status == AuctionStatusUpcoming && !now.Before(a.StartsAt) {
		status = AuctionStatusLive
	}
	if status == AuctionStatusLive && !now.Before(a.EndsAt) {
		status = AuctionStatusEnded
	}
	return status
}

// ReserveMet reports whether an ended auction's final price clears the
// seller's reserve. Auctions without a reserve always clear.
func (a Auction) ReserveMet() bool {
	if a.ReservePriceCents == nil {
		return true
	}
	return a.CurrentPriceCents >= *a.ReservePriceCents
}
