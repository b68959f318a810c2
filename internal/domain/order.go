package domain

import "time"

// OrderLine is an immutable snapshot of one purchased cart line.
type OrderLine struct {
	ProductID      string
	ProductName    string
	Quantity       int
	UnitPriceCents int64
}

// Order is the immutable record created at checkout. Monetary fields never
// change after creation; only the status flags advance, and only forward.
type Order struct {
	ID             string
	UserID         string
	Lines          []OrderLine
	TotalCents     int64
	IdempotencyKey string
	IsPaid         bool
	PaidAt         *time.Time
	IsDelivered    bool
	DeliveredAt    *time.Time
	CreatedAt      time.Time
}

func (o Order) ComputeTotalCents() int64 {
	var total int64
	for _, l := range o.Lines {
		total += l.UnitPriceCents * int64(l.Quantity)
	}
	return total
}
