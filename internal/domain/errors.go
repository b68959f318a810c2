package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrAuctionNotFound        = errors.New("auction not found")
	ErrAuctionNotLive         = errors.New("auction not live")
	ErrAuctionNotCancellable  = errors.New("auction not cancellable")
	ErrNotSeller              = errors.New("actor is not the seller")
	ErrBidTooLow              = errors.New("bid too low")
	ErrProductNotFound        = errors.New("product not found")
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrEmptyCart              = errors.New("cart is empty")
	ErrCartItemNotFound       = errors.New("cart item not found")
	ErrOrderNotFound          = errors.New("order not found")
	ErrInvalidQuantity        = errors.New("invalid quantity")
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrInvalidAuctionWindow   = errors.New("auction end time must be after start time")
	ErrIdempotencyKeyRequired = errors.New("idempotency key required")
	ErrIdempotencyConflict    = errors.New("idempotency conflict")
	ErrVersionConflict        = errors.New("version conflict")
	ErrConflict               = errors.New("concurrent modification, retry")
	ErrUnavailable            = errors.New("store unavailable")
	ErrInvalidID              = errors.New("invalid id")
)

// StockShortfall names one checkout line that could not be reserved.
type StockShortfall struct {
	ProductID string
	Requested int
	Available int
}

// InsufficientStockError reports every line that failed during a checkout
// attempt. It unwraps to ErrInsufficientStock so callers can match either.
type InsufficientStockError struct {
	Shortfalls []StockShortfall
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortfalls))
	for _, s := range e.Shortfalls {
		parts = append(parts, fmt.Sprintf("%s (requested %d, available %d)", s.ProductID, s.Requested, s.Available))
	}
	return "insufficient stock: " + strings.Join(parts, ", ")
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}
