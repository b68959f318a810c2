package app

import (
	"context"
	"errors"
	"time"

	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/clock"
	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/domain"
	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/events"
	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/kafka"
)

type AuctionRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateAuction(ctx context.Context, a domain.Auction) error
	GetAuction(ctx context.Context, id string) (domain.Auction, error)
	CompareAndSwapAuction(ctx context.Context, expectedVersion int64, a domain.Auction) error
	ListBids(ctx context.Context, auctionID string) ([]domain.Bid, error)
}

// AuctionService owns the auction lifecycle: listing creation, the derived
// status machine, and seller cancellation. The stored status column is a
// cached derivation; every read recomputes it and rolls the row forward
// when it lags.
type AuctionService struct {
	repo      AuctionRepository
	clock     clock.Clock
	publisher events.Publisher
}

const maxCASAttempts = 4

func NewAuctionService(repo AuctionRepository, clk clock.Clock, pub events.Publisher) *AuctionService {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return &AuctionService{repo: repo, clock: clk, publisher: pub}
}

type CreateAuctionInput struct {
	SellerID          string
	Title             string
	StartPriceCents   int64
	ReservePriceCents *int64
	StartsAt          time.Time
	EndsAt            time.Time
}

func (s *AuctionService) CreateAuction(ctx context.Context, in CreateAuctionInput) (domain.Auction, error) {
	if in.SellerID == "" || in.Title == "" {
		return domain.Auction{}, domain.ErrInvalidID
	}
	if in.StartPriceCents < 0 {
		return domain.Auction{}, domain.ErrInvalidAmount
	}
	if in.ReservePriceCents != nil && *in.ReservePriceCents < 0 {
		return domain.Auction{}, domain.ErrInvalidAmount
	}

	now := s.clock.Now()
	if !in.EndsAt.After(in.StartsAt) || !in.EndsAt.After(now) {
		return domain.Auction{}, domain.ErrInvalidAuctionWindow
	}

	status := domain.AuctionStatusUpcoming
	if !now.Before(in.StartsAt) {
		status = domain.AuctionStatusLive
	}

	a := domain.Auction{
		ID:                newID(),
		SellerID:          in.SellerID,
		Title:             in.Title,
		StartPriceCents:   in.StartPriceCents,
		CurrentPriceCents: in.StartPriceCents,
		ReservePriceCents: in.ReservePriceCents,
		StartsAt:          in.StartsAt.UTC(),
		EndsAt:            in.EndsAt.UTC(),
		Status:            status,
		Version:           1,
		CreatedAt:         now,
	}
	if err := s.repo.CreateAuction(ctx, a); err != nil {
		return domain.Auction{}, err
	}
	return a, nil
}

// GetAuction returns the auction with its effective status. When the stored
// status lags wall-clock the transition is persisted before returning, so
// every reader observes the same derivation.
func (s *AuctionService) GetAuction(ctx context.Context, id string) (domain.Auction, error) {
	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		a, err := s.repo.GetAuction(ctx, id)
		if err != nil {
			return domain.Auction{}, err
		}

		now := s.clock.Now()
		effective := domain.EffectiveStatus(a, now)
		if effective == a.Status {
			return a, nil
		}

		next := a
		next.Status = effective
		if err := s.repo.CompareAndSwapAuction(ctx, a.Version, next); err != nil {
			if errors.Is(err, domain.ErrVersionConflict) {
				// Someone else wrote the row first; re-derive from their state.
				continue
			}
			return domain.Auction{}, err
		}
		next.Version = a.Version + 1
		s.publishTransition(ctx, a.Status, next)
		return next, nil
	}
	return domain.Auction{}, domain.ErrConflict
}

// ListBids returns the auction's ledger in acceptance order.
func (s *AuctionService) ListBids(ctx context.Context, auctionID string) ([]domain.Bid, error) {
	if _, err := s.repo.GetAuction(ctx, auctionID); err != nil {
		return nil, err
	}
	return s.repo.ListBids(ctx, auctionID)
}

// CancelAuction moves an upcoming or live auction to its terminal cancelled
// state. Only the owning seller may cancel.
func (s *AuctionService) CancelAuction(ctx context.Context, auctionID, sellerID string) (domain.Auction, error) {
	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		a, err := s.repo.GetAuction(ctx, auctionID)
		if err != nil {
			return domain.Auction{}, err
		}
		if a.SellerID != sellerID {
			return domain.Auction{}, domain.ErrNotSeller
		}

		now := s.clock.Now()
		switch domain.EffectiveStatus(a, now) {
		case domain.AuctionStatusUpcoming, domain.AuctionStatusLive:
		default:
			return domain.Auction{}, domain.ErrAuctionNotCancellable
		}

		next := a
		next.Status = domain.AuctionStatusCancelled
		if err := s.repo.CompareAndSwapAuction(ctx, a.Version, next); err != nil {
			if errors.Is(err, domain.ErrVersionConflict) {
				continue
			}
			return domain.Auction{}, err
		}
		next.Version = a.Version + 1
		return next, nil
	}
	return domain.Auction{}, domain.ErrConflict
}

func (s *AuctionService) publishTransition(ctx context.Context, from domain.AuctionStatus, a domain.Auction) {
	switch {
	case from == domain.AuctionStatusUpcoming && a.Status == domain.AuctionStatusLive:
		s.publisher.Publish(ctx, a.ID, events.Envelope{
			EventID:       newID(),
			EventType:     events.EventAuctionStarted,
			EventVersion:  1,
			OccurredAt:    s.clock.Now(),
			Producer:      "marketplace-api",
			CorrelationID: a.ID,
			Payload: kafka.MustMarshal(events.AuctionStartedPayload{
				AuctionID: a.ID,
				StartsAt:  a.StartsAt,
			}),
		})
	case a.Status == domain.AuctionStatusEnded:
		s.publisher.Publish(ctx, a.ID, events.Envelope{
			EventID:       newID(),
			EventType:     events.EventAuctionEnded,
			EventVersion:  1,
			OccurredAt:    s.clock.Now(),
			Producer:      "marketplace-api",
			CorrelationID: a.ID,
			Payload: kafka.MustMarshal(events.AuctionEndedPayload{
				AuctionID:       a.ID,
				FinalPriceCents: a.CurrentPriceCents,
				BidCount:        a.BidCount,
				ReserveMet:      a.ReserveMet(),
			}),
		})
	}
}
