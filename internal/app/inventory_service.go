package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/clock"
	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/domain"
)

type ProductRepository interface {
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	// CompareAndSwapStock writes newCount only when the stored count still
	// equals expected, returning domain.ErrVersionConflict otherwise.
	CompareAndSwapStock(ctx context.Context, id string, expected, newCount int) error
}

// InventoryService is the only legal path that reduces a product's stock.
// The check-then-decrement is a single compare-and-swap on the stock value,
// so two buyers racing for the last unit get exactly one success.
type InventoryService struct {
	repo  ProductRepository
	clock clock.Clock
}

func NewInventoryService(repo ProductRepository, clk clock.Clock) *InventoryService {
	return &InventoryService{repo: repo, clock: clk}
}

// ReserveStock atomically claims quantity units and returns the reservation
// token a compensating release consumes.
func (s *InventoryService) ReserveStock(ctx context.Context, productID string, quantity int) (domain.Reservation, error) {
	if quantity <= 0 {
		return domain.Reservation{}, domain.ErrInvalidQuantity
	}

	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		p, err := s.repo.GetProduct(ctx, productID)
		if err != nil {
			return domain.Reservation{}, err
		}
		if quantity > p.Stock {
			return domain.Reservation{}, &domain.InsufficientStockError{
				Shortfalls: []domain.StockShortfall{
					{ProductID: productID, Requested: quantity, Available: p.Stock},
				},
			}
		}

		err = s.repo.CompareAndSwapStock(ctx, productID, p.Stock, p.Stock-quantity)
		if errors.Is(err, domain.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return domain.Reservation{}, err
		}
		return domain.Reservation{
			ID:        newID(),
			ProductID: productID,
			Quantity:  quantity,
			CreatedAt: s.clock.Now(),
		}, nil
	}
	return domain.Reservation{}, domain.ErrConflict
}

// ReleaseStock is the compensating increment for an abandoned reservation.
// It keeps retrying through contention until the context gives up: a lost
// release would leave stock artificially reduced.
func (s *InventoryService) ReleaseStock(ctx context.Context, r domain.Reservation) error {
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("release stock for %s: %w", r.ProductID, err)
		}
		p, err := s.repo.GetProduct(ctx, r.ProductID)
		if err != nil {
			return err
		}
		err = s.repo.CompareAndSwapStock(ctx, r.ProductID, p.Stock, p.Stock+r.Quantity)
		if errors.Is(err, domain.ErrVersionConflict) {
			continue
		}
		return err
	}
}

// CheckAvailability reports current stock without committing anything; the
// add-to-cart path uses it to pre-validate a quantity.
func (s *InventoryService) CheckAvailability(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	p, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if quantity > p.Stock {
		return &domain.InsufficientStockError{
			Shortfalls: []domain.StockShortfall{
				{ProductID: productID, Requested: quantity, Available: p.Stock},
			},
		}
	}
	return nil
}
