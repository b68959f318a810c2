package http

import (
	"context"
	"net/http"
	"time"

	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/domain"
	"github.com/go-chi/chi/v5"
)

type ProductReader interface {
	GetProduct(ctx context.Context, id string) (domain.Product, error)
}

// HandleGetProduct exposes the availability probe the storefront polls
// before adding to a cart. Stock shown here is advisory; only the checkout
// reservation commits.
func HandleGetProduct(svc ProductReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetProduct(r.Context(), chi.URLParam(r, "productID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, productResponse{
			ID:         p.ID,
			SellerID:   p.SellerID,
			Name:       p.Name,
			PriceCents: p.PriceCents,
			Stock:      p.Stock,
			UpdatedAt:  p.UpdatedAt,
		})
	}
}

type productResponse struct {
	ID         string    `json:"id"`
	SellerID   string    `json:"seller_id"`
	Name       string    `json:"name"`
	PriceCents int64     `json:"price_cents"`
	Stock      int       `json:"stock"`
	UpdatedAt  time.Time `json:"updated_at"`
}
