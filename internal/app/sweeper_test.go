package app

import (
	"context"
	"testing"
	"time"

	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/clock"
	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/domain"
	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/events"
)

func TestSweeper_Sweep(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	repo := newFakeAuctionRepo(
		domain.Auction{
			ID:       "lagging-start",
			SellerID: "seller-1",
			StartsAt: now.Add(-time.Minute),
			EndsAt:   now.Add(time.Hour),
			Status:   domain.AuctionStatusUpcoming,
			Version:  1,
		},
		domain.Auction{
			ID:       "lagging-end",
			SellerID: "seller-1",
			StartsAt: now.Add(-2 * time.Hour),
			EndsAt:   now.Add(-time.Minute),
			Status:   domain.AuctionStatusLive,
			Version:  1,
		},
		domain.Auction{
			ID:       "fresh",
			SellerID: "seller-1",
			StartsAt: now.Add(-time.Hour),
			EndsAt:   now.Add(time.Hour),
			Status:   domain.AuctionStatusLive,
			Version:  1,
		},
	)

	clk := clock.NewFixed(now)
	pub := &recorderPublisher{}
	auctions := NewAuctionService(repo, clk, pub)
	sweeper := NewSweeper(repo, auctions, clk, nil)

	sweeper.sweep(context.Background())

	started, _ := repo.GetAuction(context.Background(), "lagging-start")
	if started.Status != domain.AuctionStatusLive {
		t.Fatalf("expected lagging-start rolled to live, got %s", started.Status)
	}
	ended, _ := repo.GetAuction(context.Background(), "lagging-end")
	if ended.Status != domain.AuctionStatusEnded {
		t.Fatalf("expected lagging-end rolled to ended, got %s", ended.Status)
	}
	fresh, _ := repo.GetAuction(context.Background(), "fresh")
	if fresh.Version != 1 {
		t.Fatalf("expected fresh auction untouched, got version %d", fresh.Version)
	}

	if len(pub.byType(events.EventAuctionStarted)) != 1 {
		t.Fatalf("expected one AuctionStarted event")
	}
	if len(pub.byType(events.EventAuctionEnded)) != 1 {
		t.Fatalf("expected one AuctionEnded event")
	}
}
