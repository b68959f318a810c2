package domain

import "time"

// CartItem snapshots the catalog price at the moment the line was added.
// Totals are computed from that snapshot so a later catalog price change
// does not shift an already-built cart.
type CartItem struct {
	ProductID            string
	ProductName          string
	Quantity             int
	PriceAtAdditionCents int64
	AddedAt              time.Time
}

// Cart holds one user's pending lines. Cleared, never deleted, on a
// successful checkout.
type Cart struct {
	UserID    string
	Items     []CartItem
	UpdatedAt time.Time
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// TotalCents sums the snapshot prices across all lines.
func (c Cart) TotalCents() int64 {
	var total int64
	for _, it := range c.Items {
		total += it.PriceAtAdditionCents * int64(it.Quantity)
	}
	return total
}

// FindItem returns the index of the line for productID, or -1.
func (c Cart) FindItem(productID string) int {
	for i, it := range c.Items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}
