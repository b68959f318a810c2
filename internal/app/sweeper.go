package app

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/clock"
	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/domain"
)

type SweeperRepository interface {
	// ListStatusLagging returns auctions whose stored status trails the
	// clock: upcoming past their start, or live past their end.
	ListStatusLagging(ctx context.Context, now time.Time, limit int) ([]domain.Auction, error)
}

// Sweeper rolls lagging auction statuses forward in the background so ended
// auctions get their terminal event promptly. It is an optimization only:
// lazy materialization on read keeps every path correct without it.
type Sweeper struct {
	repo     SweeperRepository
	auctions *AuctionService
	clock    clock.Clock
	interval time.Duration
	batch    int
	logger   *log.Logger
}

const (
	defaultSweepInterval = 15 * time.Second
	defaultSweepBatch    = 100
)

func NewSweeper(repo SweeperRepository, auctions *AuctionService, clk clock.Clock, logger *log.Logger) *Sweeper {
	if logger == nil {
		logger = log.Default()
	}
	return &Sweeper{
		repo:     repo,
		auctions: auctions,
		clock:    clk,
		interval: defaultSweepInterval,
		batch:    defaultSweepBatch,
		logger:   logger,
	}
}

// Run loops until ctx is cancelled. Suitable as an errgroup member.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	lagging, err := s.repo.ListStatusLagging(ctx, s.clock.Now(), s.batch)
	if err != nil {
		s.logger.Printf("WARN: sweep list: %v", err)
		return
	}
	for _, a := range lagging {
		// GetAuction materializes and publishes the transition.
		if _, err := s.auctions.GetAuction(ctx, a.ID); err != nil {
			if errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrAuctionNotFound) {
				continue
			}
			s.logger.Printf("WARN: sweep auction %s: %v", a.ID, err)
		}
	}
}
