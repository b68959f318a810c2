package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/domain"
	"github.com/go-chi/chi/v5"
)

// CartManager is the minimal interface the cart handlers need.
type CartManager interface {
	GetCart(ctx context.Context, userID string) (domain.Cart, error)
	AddItem(ctx context.Context, userID, productID string, quantity int) (domain.Cart, error)
	UpdateItemQuantity(ctx context.Context, userID, productID string, quantity int) (domain.Cart, error)
	RemoveItem(ctx context.Context, userID, productID string) (domain.Cart, error)
}

func HandleGetCart(svc CartManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		cart, err := svc.GetCart(r.Context(), userID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toCartResponse(cart))
	}
}

func HandleAddCartItem(svc CartManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req addCartItemRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.ProductID == "" {
			writeError(w, http.StatusBadRequest, codeMissingRequiredField, "product_id is required")
			return
		}
		if req.Quantity <= 0 {
			writeError(w, http.StatusBadRequest, codeInvalidQuantity, "quantity must be positive")
			return
		}

		cart, err := svc.AddItem(r.Context(), userID, req.ProductID, req.Quantity)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toCartResponse(cart))
	}
}

func HandleUpdateCartItem(svc CartManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req updateCartItemRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.Quantity <= 0 {
			writeError(w, http.StatusBadRequest, codeInvalidQuantity, "quantity must be positive")
			return
		}

		cart, err := svc.UpdateItemQuantity(r.Context(), userID, chi.URLParam(r, "productID"), req.Quantity)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toCartResponse(cart))
	}
}

func HandleRemoveCartItem(svc CartManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		cart, err := svc.RemoveItem(r.Context(), userID, chi.URLParam(r, "productID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toCartResponse(cart))
	}
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.Header.Get(userIDHeader)
	if userID == "" {
		writeError(w, http.StatusBadRequest, codeMissingRequiredField, userIDHeader+" header is required")
		return "", false
	}
	return userID, true
}

type addCartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type cartItemResponse struct {
	ProductID            string    `json:"product_id"`
	ProductName          string    `json:"product_name"`
	Quantity             int       `json:"quantity"`
	PriceAtAdditionCents int64     `json:"price_at_addition_cents"`
	AddedAt              time.Time `json:"added_at"`
}

type cartResponse struct {
	UserID     string             `json:"user_id"`
	Items      []cartItemResponse `json:"items"`
	TotalCents int64              `json:"total_cents"`
}

func toCartResponse(cart domain.Cart) cartResponse {
	items := make([]cartItemResponse, 0, len(cart.Items))
	for _, it := range cart.Items {
		items = append(items, cartItemResponse{
			ProductID:            it.ProductID,
			ProductName:          it.ProductName,
			Quantity:             it.Quantity,
			PriceAtAdditionCents: it.PriceAtAdditionCents,
			AddedAt:              it.AddedAt,
		})
	}
	return cartResponse{
		UserID:     cart.UserID,
		Items:      items,
		TotalCents: cart.TotalCents(),
	}
}
