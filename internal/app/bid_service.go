package app

import (
	"context"
	"errors"

	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/clock"
	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/domain"
	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/events"
	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/kafka"
)

type BidRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetAuction(ctx context.Context, id string) (domain.Auction, error)
	CompareAndSwapAuction(ctx context.Context, expectedVersion int64, a domain.Auction) error
	InsertBid(ctx context.Context, bid domain.Bid) error
}

// BidService is the append-only bid ledger. Accepted bids for one auction
// are totally ordered and each strictly increases the current price; the
// price update and the ledger append are one atomic write guarded by the
// auction version, so a stale bidder loses the swap and re-validates
// against the fresh price instead of clobbering it.
type BidService struct {
	repo      BidRepository
	clock     clock.Clock
	publisher events.Publisher
}

func NewBidService(repo BidRepository, clk clock.Clock, pub events.Publisher) *BidService {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return &BidService{repo: repo, clock: clk, publisher: pub}
}

type PlaceBidInput struct {
	AuctionID   string
	BidderID    string
	AmountCents int64
}

func (s *BidService) PlaceBid(ctx context.Context, in PlaceBidInput) (domain.Bid, error) {
	if in.BidderID == "" {
		return domain.Bid{}, domain.ErrInvalidID
	}
	if in.AmountCents <= 0 {
		return domain.Bid{}, domain.ErrInvalidAmount
	}

	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		a, err := s.repo.GetAuction(ctx, in.AuctionID)
		if err != nil {
			return domain.Bid{}, err
		}

		now := s.clock.Now()
		earlyStart := false
		switch domain.EffectiveStatus(a, now) {
		case domain.AuctionStatusLive:
		case domain.AuctionStatusUpcoming:
			// The first bid on an upcoming auction opens it early and moves
			// its start to now. Any later bid before the stored start would
			// find the auction already live.
			if a.BidCount != 0 {
				return domain.Bid{}, domain.ErrAuctionNotLive
			}
			earlyStart = true
		default:
			return domain.Bid{}, domain.ErrAuctionNotLive
		}

		// Strict increase: matching the current price is not enough.
		if in.AmountCents <= a.CurrentPriceCents {
			return domain.Bid{}, domain.ErrBidTooLow
		}

		bid := domain.Bid{
			ID:          newID(),
			AuctionID:   a.ID,
			BidderID:    in.BidderID,
			AmountCents: in.AmountCents,
			CreatedAt:   now,
		}

		next := a
		next.Status = domain.AuctionStatusLive
		next.CurrentPriceCents = in.AmountCents
		next.BidCount = a.BidCount + 1
		if earlyStart {
			next.StartsAt = now
		}

		err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
			if err := s.repo.CompareAndSwapAuction(txCtx, a.Version, next); err != nil {
				return err
			}
			return s.repo.InsertBid(txCtx, bid)
		})
		if errors.Is(err, domain.ErrVersionConflict) {
			// Lost the race; re-read and validate against the winner's price.
			continue
		}
		if err != nil {
			return domain.Bid{}, err
		}

		s.publisher.Publish(ctx, a.ID, events.Envelope{
			EventID:       newID(),
			EventType:     events.EventBidPlaced,
			EventVersion:  1,
			OccurredAt:    now,
			Producer:      "marketplace-api",
			CorrelationID: a.ID,
			Payload: kafka.MustMarshal(events.BidPlacedPayload{
				AuctionID:    a.ID,
				BidID:        bid.ID,
				BidderID:     bid.BidderID,
				AmountCents:  bid.AmountCents,
				EarlyStarted: earlyStart,
			}),
		})
		return bid, nil
	}
	return domain.Bid{}, domain.ErrConflict
}
