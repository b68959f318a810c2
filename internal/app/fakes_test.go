package app

import (
	"context"
	"sync"
	"time"

	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/domain"
	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/events"
)

// fakeAuctionRepo mimics the Postgres repository's CAS semantics in memory,
// including failed swaps under concurrent writers.
type fakeAuctionRepo struct {
	mu sync.Mutex
	// txMu serializes WithTx bodies the way the row lock taken by the
	// version-guarded UPDATE does in Postgres, so a swap and the ledger
	// append it pairs with are observed as one step.
	txMu     sync.Mutex
	auctions map[string]domain.Auction
	bids     map[string][]domain.Bid
}

func newFakeAuctionRepo(auctions ...domain.Auction) *fakeAuctionRepo {
	m := make(map[string]domain.Auction, len(auctions))
	for _, a := range auctions {
		m[a.ID] = a
	}
	return &fakeAuctionRepo{auctions: m, bids: make(map[string][]domain.Bid)}
}

func (f *fakeAuctionRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.txMu.Lock()
	defer f.txMu.Unlock()
	return fn(ctx)
}

func (f *fakeAuctionRepo) CreateAuction(_ context.Context, a domain.Auction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.auctions[a.ID] = a
	return nil
}

func (f *fakeAuctionRepo) GetAuction(_ context.Context, id string) (domain.Auction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.auctions[id]
	if !ok {
		return domain.Auction{}, domain.ErrAuctionNotFound
	}
	return a, nil
}

func (f *fakeAuctionRepo) CompareAndSwapAuction(_ context.Context, expectedVersion int64, a domain.Auction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.auctions[a.ID]
	if !ok {
		return domain.ErrAuctionNotFound
	}
	if stored.Version != expectedVersion {
		return domain.ErrVersionConflict
	}
	a.Version = expectedVersion + 1
	f.auctions[a.ID] = a
	return nil
}

func (f *fakeAuctionRepo) InsertBid(_ context.Context, bid domain.Bid) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bids[bid.AuctionID] = append(f.bids[bid.AuctionID], bid)
	return nil
}

func (f *fakeAuctionRepo) ListBids(_ context.Context, auctionID string) ([]domain.Bid, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Bid{}, f.bids[auctionID]...), nil
}

func (f *fakeAuctionRepo) ListStatusLagging(_ context.Context, now time.Time, limit int) ([]domain.Auction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Auction
	for _, a := range f.auctions {
		if len(out) >= limit {
			break
		}
		lagging := (a.Status == domain.AuctionStatusUpcoming && !now.Before(a.StartsAt)) ||
			(a.Status == domain.AuctionStatusLive && !now.Before(a.EndsAt))
		if lagging {
			out = append(out, a)
		}
	}
	return out, nil
}

// fakeProductRepo applies the same compare-on-stock rule as the Postgres
// repository, so racing reservations genuinely conflict.
type fakeProductRepo struct {
	mu       sync.Mutex
	products map[string]domain.Product
	// casDelay widens the read-to-write window to provoke conflicts.
	casDelay time.Duration
}

func newFakeProductRepo(products ...domain.Product) *fakeProductRepo {
	m := make(map[string]domain.Product, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	return &fakeProductRepo{products: m}
}

func (f *fakeProductRepo) GetProduct(_ context.Context, id string) (domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, nil
}

func (f *fakeProductRepo) CompareAndSwapStock(_ context.Context, id string, expected, newCount int) error {
	if f.casDelay > 0 {
		time.Sleep(f.casDelay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	if p.Stock != expected {
		return domain.ErrVersionConflict
	}
	p.Stock = newCount
	f.products[id] = p
	return nil
}

func (f *fakeProductRepo) stock(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products[id].Stock
}

type fakeCartRepo struct {
	mu    sync.Mutex
	carts map[string]domain.Cart
}

func newFakeCartRepo(carts ...domain.Cart) *fakeCartRepo {
	m := make(map[string]domain.Cart, len(carts))
	for _, c := range carts {
		m[c.UserID] = c
	}
	return &fakeCartRepo{carts: m}
}

func (f *fakeCartRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeCartRepo) GetCart(_ context.Context, userID string) (domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.carts[userID]
	if !ok {
		return domain.Cart{UserID: userID}, nil
	}
	c.Items = append([]domain.CartItem{}, c.Items...)
	return c, nil
}

func (f *fakeCartRepo) SaveCart(_ context.Context, cart domain.Cart) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.carts[cart.UserID] = cart
	return nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[string]domain.Order
	byKey  map[string]string
	carts  *fakeCartRepo
}

func newFakeOrderRepo(carts *fakeCartRepo) *fakeOrderRepo {
	return &fakeOrderRepo{
		orders: make(map[string]domain.Order),
		byKey:  make(map[string]string),
		carts:  carts,
	}
}

func (f *fakeOrderRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeOrderRepo) CreateOrder(_ context.Context, order domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.byKey[order.IdempotencyKey]; exists {
		return domain.ErrIdempotencyConflict
	}
	f.orders[order.ID] = order
	f.byKey[order.IdempotencyKey] = order.ID
	return nil
}

func (f *fakeOrderRepo) GetOrder(_ context.Context, id string) (domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return o, nil
}

func (f *fakeOrderRepo) GetOrderByIdempotencyKey(_ context.Context, key string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.byKey[key]
	if !ok {
		return nil, nil
	}
	o := f.orders[id]
	return &o, nil
}

func (f *fakeOrderRepo) ClearCart(ctx context.Context, userID string) error {
	return f.carts.SaveCart(ctx, domain.Cart{UserID: userID})
}

func (f *fakeOrderRepo) MarkOrderPaid(_ context.Context, id string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return false, domain.ErrOrderNotFound
	}
	if o.IsPaid {
		return false, nil
	}
	o.IsPaid = true
	o.PaidAt = &at
	f.orders[id] = o
	return true, nil
}

func (f *fakeOrderRepo) MarkOrderDelivered(_ context.Context, id string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return false, domain.ErrOrderNotFound
	}
	if o.IsDelivered {
		return false, nil
	}
	o.IsDelivered = true
	o.DeliveredAt = &at
	f.orders[id] = o
	return true, nil
}

// recorderPublisher captures published envelopes for assertions.
type recorderPublisher struct {
	mu        sync.Mutex
	envelopes []events.Envelope
}

func (r *recorderPublisher) Publish(_ context.Context, _ string, env events.Envelope) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.envelopes = append(r.envelopes, env)
}

func (r *recorderPublisher) byType(eventType string) []events.Envelope {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Envelope
	for _, e := range r.envelopes {
		if e.EventType == eventType {
			out = append(out, e)
		}
	}
	return out
}
