package app

import (
	"context"
	"errors"
	"time"

	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/clock"
	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/domain"
	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/events"
	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/kafka"
)

type OrderRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateOrder(ctx context.Context, order domain.Order) error
	GetOrder(ctx context.Context, id string) (domain.Order, error)
	GetOrderByIdempotencyKey(ctx context.Context, key string) (*domain.Order, error)
	ClearCart(ctx context.Context, userID string) error
	MarkOrderPaid(ctx context.Context, id string, at time.Time) (bool, error)
	MarkOrderDelivered(ctx context.Context, id string, at time.Time) (bool, error)
}

type StockReserver interface {
	ReserveStock(ctx context.Context, productID string, quantity int) (domain.Reservation, error)
	ReleaseStock(ctx context.Context, r domain.Reservation) error
}

// CheckoutService converts a cart into an immutable order. Each line is
// claimed through the inventory ledger's atomic decrement; when any line
// falls short, every reservation made in the same attempt is released, so a
// failed checkout never leaves stock reduced.
type CheckoutService struct {
	carts     CartRepository
	orders    OrderRepository
	stock     StockReserver
	clock     clock.Clock
	publisher events.Publisher
}

func NewCheckoutService(carts CartRepository, orders OrderRepository, stock StockReserver, clk clock.Clock, pub events.Publisher) *CheckoutService {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return &CheckoutService{carts: carts, orders: orders, stock: stock, clock: clk, publisher: pub}
}

type CheckoutInput struct {
	UserID         string
	IdempotencyKey string
}

type CheckoutResult struct {
	Order   domain.Order
	Created bool
}

func (s *CheckoutService) Checkout(ctx context.Context, in CheckoutInput) (CheckoutResult, error) {
	if in.UserID == "" {
		return CheckoutResult{}, domain.ErrInvalidID
	}
	if in.IdempotencyKey == "" {
		return CheckoutResult{}, domain.ErrIdempotencyKeyRequired
	}

	if existing, err := s.orders.GetOrderByIdempotencyKey(ctx, in.IdempotencyKey); err != nil {
		return CheckoutResult{}, err
	} else if existing != nil {
		if existing.UserID != in.UserID {
			return CheckoutResult{}, domain.ErrIdempotencyConflict
		}
		// An honest retry arrives with the cart already cleared by the
		// attempt that created the order. A non-empty cart whose lines
		// differ from the order's is a new purchase reusing an old key.
		cart, err := s.carts.GetCart(ctx, in.UserID)
		if err != nil {
			return CheckoutResult{}, err
		}
		if !cart.IsEmpty() && !cartMatchesOrder(cart, *existing) {
			return CheckoutResult{}, domain.ErrIdempotencyConflict
		}
		return CheckoutResult{Order: *existing, Created: false}, nil
	}

	cart, err := s.carts.GetCart(ctx, in.UserID)
	if err != nil {
		return CheckoutResult{}, err
	}
	if cart.IsEmpty() {
		return CheckoutResult{}, domain.ErrEmptyCart
	}

	reservations, shortfalls, err := s.reserveLines(ctx, cart)
	if err != nil {
		s.releaseAll(ctx, reservations)
		return CheckoutResult{}, err
	}
	if len(shortfalls) > 0 {
		s.releaseAll(ctx, reservations)
		s.publishStockRejected(ctx, in.UserID, shortfalls)
		return CheckoutResult{}, &domain.InsufficientStockError{Shortfalls: shortfalls}
	}

	now := s.clock.Now()
	order := domain.Order{
		ID:             newID(),
		UserID:         in.UserID,
		Lines:          orderLines(cart),
		IdempotencyKey: in.IdempotencyKey,
		CreatedAt:      now,
	}
	order.TotalCents = order.ComputeTotalCents()

	err = s.orders.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.orders.CreateOrder(txCtx, order); err != nil {
			return err
		}
		return s.orders.ClearCart(txCtx, in.UserID)
	})
	if err != nil {
		if errors.Is(err, domain.ErrIdempotencyConflict) {
			// A concurrent retry with the same key won; hand back its order
			// and undo this attempt's reservations.
			s.releaseAll(ctx, reservations)
			if existing, lookupErr := s.orders.GetOrderByIdempotencyKey(ctx, in.IdempotencyKey); lookupErr == nil && existing != nil && existing.UserID == in.UserID {
				return CheckoutResult{Order: *existing, Created: false}, nil
			}
			return CheckoutResult{}, domain.ErrIdempotencyConflict
		}
		s.releaseAll(ctx, reservations)
		return CheckoutResult{}, err
	}

	s.publishOrderCreated(ctx, order)
	return CheckoutResult{Order: order, Created: true}, nil
}

// reserveLines attempts every line so the caller learns about all
// shortfalls at once, not just the first.
func (s *CheckoutService) reserveLines(ctx context.Context, cart domain.Cart) ([]domain.Reservation, []domain.StockShortfall, error) {
	var (
		reservations []domain.Reservation
		shortfalls   []domain.StockShortfall
	)
	for _, item := range cart.Items {
		r, err := s.stock.ReserveStock(ctx, item.ProductID, item.Quantity)
		if err != nil {
			var insufficient *domain.InsufficientStockError
			if errors.As(err, &insufficient) {
				shortfalls = append(shortfalls, insufficient.Shortfalls...)
				continue
			}
			if errors.Is(err, domain.ErrConflict) {
				return reservations, nil, domain.ErrUnavailable
			}
			return reservations, nil, err
		}
		reservations = append(reservations, r)
	}
	return reservations, shortfalls, nil
}

func (s *CheckoutService) releaseAll(ctx context.Context, reservations []domain.Reservation) {
	// Compensation must survive the request context being cancelled at any
	// point, including mid-loop; only the fresh deadline bounds it.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	for _, r := range reservations {
		_ = s.stock.ReleaseStock(ctx, r)
	}
}

// cartMatchesOrder reports whether the cart holds the same products in the
// same quantities as the order's lines.
func cartMatchesOrder(cart domain.Cart, order domain.Order) bool {
	if len(cart.Items) != len(order.Lines) {
		return false
	}
	want := make(map[string]int, len(order.Lines))
	for _, l := range order.Lines {
		want[l.ProductID] += l.Quantity
	}
	for _, item := range cart.Items {
		if want[item.ProductID] != item.Quantity {
			return false
		}
		delete(want, item.ProductID)
	}
	return len(want) == 0
}

func orderLines(cart domain.Cart) []domain.OrderLine {
	lines := make([]domain.OrderLine, 0, len(cart.Items))
	for _, item := range cart.Items {
		lines = append(lines, domain.OrderLine{
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			Quantity:       item.Quantity,
			UnitPriceCents: item.PriceAtAdditionCents,
		})
	}
	return lines
}

func (s *CheckoutService) publishOrderCreated(ctx context.Context, order domain.Order) {
	lines := make([]events.OrderLinePayload, 0, len(order.Lines))
	for _, l := range order.Lines {
		lines = append(lines, events.OrderLinePayload{
			ProductID:      l.ProductID,
			Quantity:       l.Quantity,
			UnitPriceCents: l.UnitPriceCents,
		})
	}
	s.publisher.Publish(ctx, order.ID, events.Envelope{
		EventID:       newID(),
		EventType:     events.EventOrderCreated,
		EventVersion:  1,
		OccurredAt:    s.clock.Now(),
		Producer:      "marketplace-api",
		CorrelationID: order.ID,
		Payload: kafka.MustMarshal(events.OrderCreatedPayload{
			OrderID:    order.ID,
			UserID:     order.UserID,
			Lines:      lines,
			TotalCents: order.TotalCents,
		}),
	})
}

func (s *CheckoutService) publishStockRejected(ctx context.Context, userID string, shortfalls []domain.StockShortfall) {
	details := make([]events.StockRejectedDetail, 0, len(shortfalls))
	for _, sf := range shortfalls {
		details = append(details, events.StockRejectedDetail{
			ProductID: sf.ProductID,
			Requested: sf.Requested,
			Available: sf.Available,
		})
	}
	s.publisher.Publish(ctx, userID, events.Envelope{
		EventID:       newID(),
		EventType:     events.EventStockRejected,
		EventVersion:  1,
		OccurredAt:    s.clock.Now(),
		Producer:      "marketplace-api",
		CorrelationID: userID,
		Payload: kafka.MustMarshal(events.StockRejectedPayload{
			UserID:  userID,
			Reason:  "OUT_OF_STOCK",
			Details: details,
		}),
	})
}
