package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/app"
	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/domain"
	"github.com/go-chi/chi/v5"
)

// BidPlacer is the minimal interface needed to place a bid.
type BidPlacer interface {
	PlaceBid(ctx context.Context, in app.PlaceBidInput) (domain.Bid, error)
}

func HandlePlaceBid(svc BidPlacer, inv SnapshotInvalidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bidderID := r.Header.Get(userIDHeader)
		if bidderID == "" {
			writeError(w, http.StatusBadRequest, codeMissingRequiredField, userIDHeader+" header is required")
			return
		}

		var req placeBidRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.AmountCents <= 0 {
			writeError(w, http.StatusBadRequest, codeInvalidAmount, "amount_cents must be positive")
			return
		}

		auctionID := chi.URLParam(r, "auctionID")
		bid, err := svc.PlaceBid(r.Context(), app.PlaceBidInput{
			AuctionID:   auctionID,
			BidderID:    bidderID,
			AmountCents: req.AmountCents,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if inv != nil {
			inv.Invalidate(r.Context(), auctionID)
		}

		writeJSON(w, http.StatusCreated, toBidResponse(bid))
	}
}

type placeBidRequest struct {
	AmountCents int64 `json:"amount_cents"`
}

type bidResponse struct {
	ID          string    `json:"id"`
	AuctionID   string    `json:"auction_id"`
	BidderID    string    `json:"bidder_id"`
	AmountCents int64     `json:"amount_cents"`
	CreatedAt   time.Time `json:"created_at"`
}

func toBidResponse(b domain.Bid) bidResponse {
	return bidResponse{
		ID:          b.ID,
		AuctionID:   b.AuctionID,
		BidderID:    b.BidderID,
		AmountCents: b.AmountCents,
		CreatedAt:   b.CreatedAt,
	}
}
