package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/app"
	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/domain"
)

func TestHandlePlaceBid(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	bid := domain.Bid{
		ID:          "bid-1",
		AuctionID:   "auction-1",
		BidderID:    "bidder-1",
		AmountCents: 150,
		CreatedAt:   now,
	}

	tests := []struct {
		name           string
		userID         string
		body           string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "accepted",
			userID:         "bidder-1",
			body:           `{"amount_cents":150}`,
			expectedStatus: http.StatusCreated,
			expectedSubstr: `"amount_cents":150`,
		},
		{
			name:           "missing user header",
			body:           `{"amount_cents":150}`,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"missing_required_field"`,
		},
		{
			name:           "malformed body",
			userID:         "bidder-1",
			body:           `{"amount_cents":`,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"invalid_request_body"`,
		},
		{
			name:           "unknown field",
			userID:         "bidder-1",
			body:           `{"amount_cents":150,"bogus":true}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "non-positive amount",
			userID:         "bidder-1",
			body:           `{"amount_cents":0}`,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"invalid_amount"`,
		},
		{
			name:           "bid too low",
			userID:         "bidder-1",
			body:           `{"amount_cents":150}`,
			serviceErr:     domain.ErrBidTooLow,
			expectedStatus: http.StatusConflict,
			expectedSubstr: `"bid_too_low"`,
		},
		{
			name:           "auction not live",
			userID:         "bidder-1",
			body:           `{"amount_cents":150}`,
			serviceErr:     domain.ErrAuctionNotLive,
			expectedStatus: http.StatusConflict,
			expectedSubstr: `"auction_not_live"`,
		},
		{
			name:           "auction not found",
			userID:         "bidder-1",
			body:           `{"amount_cents":150}`,
			serviceErr:     domain.ErrAuctionNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "contention exhausted",
			userID:         "bidder-1",
			body:           `{"amount_cents":150}`,
			serviceErr:     domain.ErrConflict,
			expectedStatus: http.StatusConflict,
			expectedSubstr: `"conflict"`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubBidPlacer{bid: bid, err: tt.serviceErr}

			r := chi.NewRouter()
			r.Post("/auctions/{auctionID}/bids", HandlePlaceBid(svc, nil))

			req := httptest.NewRequest(http.MethodPost, "/auctions/auction-1/bids", strings.NewReader(tt.body))
			if tt.userID != "" {
				req.Header.Set(userIDHeader, tt.userID)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d (%s)", tt.expectedStatus, rec.Code, rec.Body.String())
			}
			if tt.expectedSubstr != "" && !strings.Contains(rec.Body.String(), tt.expectedSubstr) {
				t.Fatalf("expected body to contain %q, got %q", tt.expectedSubstr, rec.Body.String())
			}
		})
	}

	t.Run("passes auction id from path", func(t *testing.T) {
		t.Parallel()
		svc := &stubBidPlacer{bid: bid}

		r := chi.NewRouter()
		r.Post("/auctions/{auctionID}/bids", HandlePlaceBid(svc, nil))

		req := httptest.NewRequest(http.MethodPost, "/auctions/auction-42/bids", strings.NewReader(`{"amount_cents":150}`))
		req.Header.Set(userIDHeader, "bidder-1")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if svc.lastInput.AuctionID != "auction-42" {
			t.Fatalf("expected auction-42, got %q", svc.lastInput.AuctionID)
		}
		if svc.lastInput.BidderID != "bidder-1" {
			t.Fatalf("expected bidder-1, got %q", svc.lastInput.BidderID)
		}
	})
}

type stubBidPlacer struct {
	bid       domain.Bid
	err       error
	lastInput app.PlaceBidInput
}

func (s *stubBidPlacer) PlaceBid(_ context.Context, in app.PlaceBidInput) (domain.Bid, error) {
	s.lastInput = in
	if s.err != nil {
		return domain.Bid{}, s.err
	}
	return s.bid, nil
}
