package app

import (
	"context"

	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/clock"
	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/domain"
)

// OrderService advances an order's status flags. Monetary fields are frozen
// at checkout; flags only ever move forward, so a repeated mark is a no-op
// rather than an error.
type OrderService struct {
	repo  OrderRepository
	clock clock.Clock
}

func NewOrderService(repo OrderRepository, clk clock.Clock) *OrderService {
	return &OrderService{repo: repo, clock: clk}
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	return s.repo.GetOrder(ctx, id)
}

func (s *OrderService) MarkPaid(ctx context.Context, id string) (domain.Order, error) {
	if _, err := s.repo.MarkOrderPaid(ctx, id, s.clock.Now()); err != nil {
		return domain.Order{}, err
	}
	return s.repo.GetOrder(ctx, id)
}

func (s *OrderService) MarkDelivered(ctx context.Context, id string) (domain.Order, error) {
	if _, err := s.repo.MarkOrderDelivered(ctx, id, s.clock.Now()); err != nil {
		return domain.Order{}, err
	}
	return s.repo.GetOrder(ctx, id)
}
