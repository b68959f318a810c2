package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/domain"
)

const (
	codeMethodNotAllowed     = "method_not_allowed"
	codeNotFound             = "not_found"
	codeInvalidRequestBody   = "invalid_request_body"
	codeMissingRequiredField = "missing_required_field"
	codeInvalidID            = "invalid_id"
	codeInvalidQuantity      = "invalid_quantity"
	codeInvalidAmount        = "invalid_amount"
	codeInvalidWindow        = "invalid_auction_window"
	codeAuctionNotFound      = "auction_not_found"
	codeAuctionNotLive       = "auction_not_live"
	codeNotCancellable       = "auction_not_cancellable"
	codeNotSeller            = "not_seller"
	codeBidTooLow            = "bid_too_low"
	codeProductNotFound      = "product_not_found"
	codeInsufficientStock    = "insufficient_stock"
	codeEmptyCart            = "empty_cart"
	codeCartItemNotFound     = "cart_item_not_found"
	codeOrderNotFound        = "order_not_found"
	codeIdempotencyRequired  = "idempotency_key_required"
	codeIdempotencyConflict  = "idempotency_conflict"
	codeConflict             = "conflict"
	codeUnavailable          = "unavailable"
	codeForbidden            = "forbidden"
	codeInternalError        = "internal_error"
)

type errorResponse struct {
	Error string            `json:"error"`
	Code  string            `json:"code"`
	Lines []shortfallDetail `json:"lines,omitempty"`
}

type shortfallDetail struct {
	ProductID string `json:"product_id"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeErrorResponse(w, status, errorResponse{Error: msg, Code: code})
}

func writeErrorResponse(w http.ResponseWriter, status int, resp errorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(resp)
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeDomainError maps the closed error taxonomy onto HTTP statuses. Every
// failure here is recoverable by the caller; only unknown errors become 500s.
func writeDomainError(w http.ResponseWriter, err error) {
	var insufficient *domain.InsufficientStockError
	if errors.As(err, &insufficient) {
		resp := errorResponse{Error: insufficient.Error(), Code: codeInsufficientStock}
		for _, s := range insufficient.Shortfalls {
			resp.Lines = append(resp.Lines, shortfallDetail{
				ProductID: s.ProductID,
				Requested: s.Requested,
				Available: s.Available,
			})
		}
		writeErrorResponse(w, http.StatusConflict, resp)
		return
	}

	switch {
	case errors.Is(err, domain.ErrAuctionNotFound):
		writeError(w, http.StatusNotFound, codeAuctionNotFound, err.Error())
	case errors.Is(err, domain.ErrProductNotFound):
		writeError(w, http.StatusNotFound, codeProductNotFound, err.Error())
	case errors.Is(err, domain.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, codeOrderNotFound, err.Error())
	case errors.Is(err, domain.ErrCartItemNotFound):
		writeError(w, http.StatusNotFound, codeCartItemNotFound, err.Error())
	case errors.Is(err, domain.ErrAuctionNotLive):
		writeError(w, http.StatusConflict, codeAuctionNotLive, err.Error())
	case errors.Is(err, domain.ErrAuctionNotCancellable):
		writeError(w, http.StatusConflict, codeNotCancellable, err.Error())
	case errors.Is(err, domain.ErrBidTooLow):
		writeError(w, http.StatusConflict, codeBidTooLow, err.Error())
	case errors.Is(err, domain.ErrInsufficientStock):
		writeError(w, http.StatusConflict, codeInsufficientStock, err.Error())
	case errors.Is(err, domain.ErrEmptyCart):
		writeError(w, http.StatusConflict, codeEmptyCart, err.Error())
	case errors.Is(err, domain.ErrIdempotencyConflict):
		writeError(w, http.StatusConflict, codeIdempotencyConflict, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, codeConflict, err.Error())
	case errors.Is(err, domain.ErrNotSeller):
		writeError(w, http.StatusForbidden, codeNotSeller, err.Error())
	case errors.Is(err, domain.ErrIdempotencyKeyRequired):
		writeError(w, http.StatusBadRequest, codeIdempotencyRequired, err.Error())
	case errors.Is(err, domain.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, codeInvalidQuantity, err.Error())
	case errors.Is(err, domain.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, codeInvalidAmount, err.Error())
	case errors.Is(err, domain.ErrInvalidAuctionWindow):
		writeError(w, http.StatusBadRequest, codeInvalidWindow, err.Error())
	case errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case errors.Is(err, domain.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, codeUnavailable, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
