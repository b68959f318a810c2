package domain

import "time"

// Product carries the only catalog fields the transaction core touches.
// Stock is reduced exclusively through the inventory ledger's
// compare-and-swap decrement, never overwritten from client input.
type Product struct {
	ID         string
	SellerID   string
	Name       string
	PriceCents int64
	Stock      int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Reservation is the token returned by a successful stock decrement. It is
// what a compensating release consumes when a checkout fails partway.
type Reservation struct {
	ID        string
	ProductID string
	Quantity  int
	CreatedAt time.Time
}
