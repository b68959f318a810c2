package events

import (
	"context"
	"encoding/json"
	"time"
)

const (
	EventAuctionStarted = "AuctionStarted"
	EventAuctionEnded   = "AuctionEnded"
	EventBidPlaced      = "BidPlaced"
	EventOrderCreated   = "OrderCreated"
	EventStockRejected  = "StockRejected"
)

// Envelope wraps every published domain event. Payload carries the
// event-specific body.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// Publisher is what the services see. The kafka producer implements it;
// tests plug in a recorder. Publishing is best-effort: a command never
// fails because the broker is behind.
type Publisher interface {
	Publish(ctx context.Context, key string, env Envelope)
}

// NopPublisher discards every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, Envelope) {}

type BidPlacedPayload struct {
	AuctionID    string `json:"auction_id"`
	BidID        string `json:"bid_id"`
	BidderID     string `json:"bidder_id"`
	AmountCents  int64  `json:"amount_cents"`
	EarlyStarted bool   `json:"early_started,omitempty"`
}

type AuctionStartedPayload struct {
	AuctionID string    `json:"auction_id"`
	StartsAt  time.Time `json:"starts_at"`
}

type AuctionEndedPayload struct {
	AuctionID       string `json:"auction_id"`
	FinalPriceCents int64  `json:"final_price_cents"`
	BidCount        int    `json:"bid_count"`
	ReserveMet      bool   `json:"reserve_met"`
}

type OrderLinePayload struct {
	ProductID      string `json:"product_id"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

type OrderCreatedPayload struct {
	OrderID    string             `json:"order_id"`
	UserID     string             `json:"user_id"`
	Lines      []OrderLinePayload `json:"lines"`
	TotalCents int64              `json:"total_cents"`
}

type StockRejectedDetail struct {
	ProductID string `json:"product_id"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

type StockRejectedPayload struct {
	UserID  string                `json:"user_id"`
	Reason  string                `json:"reason"`
	Details []StockRejectedDetail `json:"details,omitempty"`
}
