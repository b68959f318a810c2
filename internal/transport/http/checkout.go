package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/app"
	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/domain"
	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/redisx"
	"github.com/redis/go-redis/v9"
)

const idempotencyHeader = "Idempotency-Key"

// CheckoutRunner is the minimal interface needed to run a checkout.
type CheckoutRunner interface {
	Checkout(ctx context.Context, in app.CheckoutInput) (app.CheckoutResult, error)
}

type OrderGetter interface {
	GetOrder(ctx context.Context, id string) (domain.Order, error)
}

// CartReader is the slice of the cart service the checkout fast path needs.
type CartReader interface {
	GetCart(ctx context.Context, userID string) (domain.Cart, error)
}

// HandleCheckout converts the caller's cart into an order. The redis
// fast-path short-circuits retries of an already-completed checkout; the
// unique idempotency key on orders remains the source of truth, so a nil
// redis client only costs a database round trip.
func HandleCheckout(svc CheckoutRunner, orders OrderGetter, carts CartReader, rdb *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		key := r.Header.Get(idempotencyHeader)
		if key == "" {
			writeError(w, http.StatusBadRequest, codeIdempotencyRequired, domain.ErrIdempotencyKeyRequired.Error())
			return
		}

		// The fast path only replays a finished checkout whose cart was
		// cleared. Any non-empty cart falls through to the service, which
		// owns the reused-key rules.
		idemKey := fmt.Sprintf(redisx.KeyIdemCheckout, key)
		if orderID, err := redisx.GetString(r.Context(), rdb, idemKey); err == nil && orderID != "" {
			if cart, err := carts.GetCart(r.Context(), userID); err == nil && cart.IsEmpty() {
				if order, err := orders.GetOrder(r.Context(), orderID); err == nil && order.UserID == userID {
					writeJSON(w, http.StatusOK, toOrderResponse(order))
					return
				}
			}
		}

		res, err := svc.Checkout(r.Context(), app.CheckoutInput{
			UserID:         userID,
			IdempotencyKey: key,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		_ = redisx.SetString(r.Context(), rdb, idemKey, res.Order.ID, redisx.TTLIdempotency)

		status := http.StatusOK
		if res.Created {
			status = http.StatusCreated
		}
		writeJSON(w, status, toOrderResponse(res.Order))
	}
}

type orderLineResponse struct {
	ProductID      string `json:"product_id"`
	ProductName    string `json:"product_name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

type orderResponse struct {
	ID          string              `json:"id"`
	UserID      string              `json:"user_id"`
	Lines       []orderLineResponse `json:"lines"`
	TotalCents  int64               `json:"total_cents"`
	IsPaid      bool                `json:"is_paid"`
	PaidAt      *time.Time          `json:"paid_at,omitempty"`
	IsDelivered bool                `json:"is_delivered"`
	DeliveredAt *time.Time          `json:"delivered_at,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

func toOrderResponse(o domain.Order) orderResponse {
	lines := make([]orderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, orderLineResponse{
			ProductID:      l.ProductID,
			ProductName:    l.ProductName,
			Quantity:       l.Quantity,
			UnitPriceCents: l.UnitPriceCents,
		})
	}
	return orderResponse{
		ID:          o.ID,
		UserID:      o.UserID,
		Lines:       lines,
		TotalCents:  o.TotalCents,
		IsPaid:      o.IsPaid,
		PaidAt:      o.PaidAt,
		IsDelivered: o.IsDelivered,
		DeliveredAt: o.DeliveredAt,
		CreatedAt:   o.CreatedAt,
	}
}
