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

func TestHandleCreateAuction(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	auction := domain.Auction{
		ID:                "auction-1",
		SellerID:          "seller-1",
		Title:             "Road bike",
		StartPriceCents:   1000,
		CurrentPriceCents: 1000,
		StartsAt:          now.Add(time.Hour),
		EndsAt:            now.Add(25 * time.Hour),
		Status:            domain.AuctionStatusUpcoming,
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
			name:           "created",
			userID:         "seller-1",
			body:           `{"title":"Road bike","start_price_cents":1000,"starts_at":"2025-06-01T13:00:00Z","ends_at":"2025-06-02T13:00:00Z"}`,
			expectedStatus: http.StatusCreated,
			expectedSubstr: `"status":"upcoming"`,
		},
		{
			name:           "missing seller header",
			body:           `{"title":"Road bike"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing title",
			userID:         "seller-1",
			body:           `{"start_price_cents":1000}`,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"missing_required_field"`,
		},
		{
			name:           "invalid window",
			userID:         "seller-1",
			body:           `{"title":"Road bike","start_price_cents":1000,"starts_at":"2025-06-02T13:00:00Z","ends_at":"2025-06-01T13:00:00Z"}`,
			serviceErr:     domain.ErrInvalidAuctionWindow,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"invalid_auction_window"`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubAuctionService{auction: auction, err: tt.serviceErr}

			req := httptest.NewRequest(http.MethodPost, "/auctions", strings.NewReader(tt.body))
			if tt.userID != "" {
				req.Header.Set(userIDHeader, tt.userID)
			}
			rec := httptest.NewRecorder()
			HandleCreateAuction(svc).ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d (%s)", tt.expectedStatus, rec.Code, rec.Body.String())
			}
			if tt.expectedSubstr != "" && !strings.Contains(rec.Body.String(), tt.expectedSubstr) {
				t.Fatalf("expected body to contain %q, got %q", tt.expectedSubstr, rec.Body.String())
			}
		})
	}
}

func TestHandleGetAuction(t *testing.T) {
	t.Parallel()

	auction := domain.Auction{
		ID:                "auction-1",
		SellerID:          "seller-1",
		Title:             "Road bike",
		CurrentPriceCents: 1500,
		Status:            domain.AuctionStatusLive,
		BidCount:          2,
	}

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		r := chi.NewRouter()
		r.Get("/auctions/{auctionID}", HandleGetAuction(&stubAuctionService{auction: auction}))

		req := httptest.NewRequest(http.MethodGet, "/auctions/auction-1", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		for _, want := range []string{`"status":"live"`, `"current_price_cents":1500`, `"bid_count":2`} {
			if !strings.Contains(rec.Body.String(), want) {
				t.Fatalf("expected body to contain %q, got %q", want, rec.Body.String())
			}
		}
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		r := chi.NewRouter()
		r.Get("/auctions/{auctionID}", HandleGetAuction(&stubAuctionService{err: domain.ErrAuctionNotFound}))

		req := httptest.NewRequest(http.MethodGet, "/auctions/missing", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestHandleCancelAuction(t *testing.T) {
	t.Parallel()

	cancelled := domain.Auction{
		ID:       "auction-1",
		SellerID: "seller-1",
		Status:   domain.AuctionStatusCancelled,
	}

	tests := []struct {
		name           string
		userID         string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "cancelled",
			userID:         "seller-1",
			expectedStatus: http.StatusOK,
			expectedSubstr: `"status":"cancelled"`,
		},
		{
			name:           "missing user header",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "not the seller",
			userID:         "someone-else",
			serviceErr:     domain.ErrNotSeller,
			expectedStatus: http.StatusForbidden,
			expectedSubstr: `"not_seller"`,
		},
		{
			name:           "already ended",
			userID:         "seller-1",
			serviceErr:     domain.ErrAuctionNotCancellable,
			expectedStatus: http.StatusConflict,
			expectedSubstr: `"auction_not_cancellable"`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubAuctionService{auction: cancelled, err: tt.serviceErr}

			r := chi.NewRouter()
			r.Post("/auctions/{auctionID}/cancel", HandleCancelAuction(svc, nil))

			req := httptest.NewRequest(http.MethodPost, "/auctions/auction-1/cancel", nil)
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
}

func TestHandleListBids(t *testing.T) {
	t.Parallel()

	bids := []domain.Bid{
		{ID: "bid-1", AuctionID: "auction-1", AmountCents: 110},
		{ID: "bid-2", AuctionID: "auction-1", AmountCents: 120},
	}

	r := chi.NewRouter()
	r.Get("/auctions/{auctionID}/bids", HandleListBids(&stubAuctionService{bids: bids}))

	req := httptest.NewRequest(http.MethodGet, "/auctions/auction-1/bids", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"bid-1"`) || !strings.Contains(body, `"bid-2"`) {
		t.Fatalf("expected both bids in body, got %q", body)
	}
	if strings.Index(body, "bid-1") > strings.Index(body, "bid-2") {
		t.Fatalf("expected ledger order preserved, got %q", body)
	}
}

type stubAuctionService struct {
	auction domain.Auction
	bids    []domain.Bid
	err     error
}

func (s *stubAuctionService) CreateAuction(_ context.Context, _ app.CreateAuctionInput) (domain.Auction, error) {
	if s.err != nil {
		return domain.Auction{}, s.err
	}
	return s.auction, nil
}

func (s *stubAuctionService) GetAuction(_ context.Context, _ string) (domain.Auction, error) {
	if s.err != nil {
		return domain.Auction{}, s.err
	}
	return s.auction, nil
}

func (s *stubAuctionService) CancelAuction(_ context.Context, _, _ string) (domain.Auction, error) {
	if s.err != nil {
		return domain.Auction{}, s.err
	}
	return s.auction, nil
}

func (s *stubAuctionService) ListBids(_ context.Context, _ string) ([]domain.Bid, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.bids, nil
}
