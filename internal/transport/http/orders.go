package http

import (
	"context"
	"net/http"

	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/domain"
	"github.com/go-chi/chi/v5"
)

// OrderAdvancer moves an order's status flags forward.
type OrderAdvancer interface {
	GetOrder(ctx context.Context, id string) (domain.Order, error)
	MarkPaid(ctx context.Context, id string) (domain.Order, error)
	MarkDelivered(ctx context.Context, id string) (domain.Order, error)
}

func HandleGetOrder(svc OrderAdvancer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := svc.GetOrder(r.Context(), chi.URLParam(r, "orderID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toOrderResponse(order))
	}
}

func HandleMarkOrderPaid(svc OrderAdvancer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := svc.MarkPaid(r.Context(), chi.URLParam(r, "orderID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toOrderResponse(order))
	}
}

func HandleMarkOrderDelivered(svc OrderAdvancer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := svc.MarkDelivered(r.Context(), chi.URLParam(r, "orderID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toOrderResponse(order))
	}
}
