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

// AuctionCreator is the minimal interface needed to create a listing.
type AuctionCreator interface {
	CreateAuction(ctx context.Context, in app.CreateAuctionInput) (domain.Auction, error)
}

// AuctionReader serves the read path; in production it is the
// singleflight-backed snapshot cache.
type AuctionReader interface {
	GetAuction(ctx context.Context, id string) (domain.Auction, error)
}

type AuctionCanceller interface {
	CancelAuction(ctx context.Context, auctionID, sellerID string) (domain.Auction, error)
}

type BidLister interface {
	ListBids(ctx context.Context, auctionID string) ([]domain.Bid, error)
}

// SnapshotInvalidator drops a cached auction snapshot after a write.
type SnapshotInvalidator interface {
	Invalidate(ctx context.Context, id string)
}

func HandleCreateAuction(svc AuctionCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sellerID := r.Header.Get(userIDHeader)
		if sellerID == "" {
			writeError(w, http.StatusBadRequest, codeMissingRequiredField, userIDHeader+" header is required")
			return
		}

		var req createAuctionRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.Title == "" {
			writeError(w, http.StatusBadRequest, codeMissingRequiredField, "title is required")
			return
		}

		a, err := svc.CreateAuction(r.Context(), app.CreateAuctionInput{
			SellerID:          sellerID,
			Title:             req.Title,
			StartPriceCents:   req.StartPriceCents,
			ReservePriceCents: req.ReservePriceCents,
			StartsAt:          req.StartsAt,
			EndsAt:            req.EndsAt,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toAuctionResponse(a))
	}
}

func HandleGetAuction(svc AuctionReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.GetAuction(r.Context(), chi.URLParam(r, "auctionID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAuctionResponse(a))
	}
}

func HandleListBids(svc BidLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bids, err := svc.ListBids(r.Context(), chi.URLParam(r, "auctionID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}

		out := make([]bidResponse, 0, len(bids))
		for _, b := range bids {
			out = append(out, toBidResponse(b))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func HandleCancelAuction(svc AuctionCanceller, inv SnapshotInvalidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sellerID := r.Header.Get(userIDHeader)
		if sellerID == "" {
			writeError(w, http.StatusBadRequest, codeMissingRequiredField, userIDHeader+" header is required")
			return
		}

		auctionID := chi.URLParam(r, "auctionID")
		a, err := svc.CancelAuction(r.Context(), auctionID, sellerID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if inv != nil {
			inv.Invalidate(r.Context(), auctionID)
		}
		writeJSON(w, http.StatusOK, toAuctionResponse(a))
	}
}

type createAuctionRequest struct {
	Title             string    `json:"title"`
	StartPriceCents   int64     `json:"start_price_cents"`
	ReservePriceCents *int64    `json:"reserve_price_cents,omitempty"`
	StartsAt          time.Time `json:"starts_at"`
	EndsAt            time.Time `json:"ends_at"`
}

type auctionResponse struct {
	ID                string    `json:"id"`
	SellerID          string    `json:"seller_id"`
	Title             string    `json:"title"`
	StartPriceCents   int64     `json:"start_price_cents"`
	CurrentPriceCents int64     `json:"current_price_cents"`
	ReservePriceCents *int64    `json:"reserve_price_cents,omitempty"`
	StartsAt          time.Time `json:"starts_at"`
	EndsAt            time.Time `json:"ends_at"`
	Status            string    `json:"status"`
	BidCount          int       `json:"bid_count"`
}

func toAuctionResponse(a domain.Auction) auctionResponse {
	return auctionResponse{
		ID:                a.ID,
		SellerID:          a.SellerID,
		Title:             a.Title,
		StartPriceCents:   a.StartPriceCents,
		CurrentPriceCents: a.CurrentPriceCents,
		ReservePriceCents: a.ReservePriceCents,
		StartsAt:          a.StartsAt,
		EndsAt:            a.EndsAt,
		Status:            string(a.Status),
		BidCount:          a.BidCount,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
