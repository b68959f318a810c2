package app

import (
	"context"

	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/clock"
	"github.com/Arvin-Samuel-A/EcoFinds-sub000/internal/domain"
)

type CartRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	// GetCart returns an empty cart (not an error) for a user with no lines.
	GetCart(ctx context.Context, userID string) (domain.Cart, error)
	SaveCart(ctx context.Context, cart domain.Cart) error
}

type ProductReader interface {
	GetProduct(ctx context.Context, id string) (domain.Product, error)
}

// CartService mutates a user's pending lines. The price on a line is
// snapshotted when the line is first added and kept on later quantity
// changes, so checkout totals stay stable against catalog edits.
type CartService struct {
	carts    CartRepository
	products ProductReader
	clock    clock.Clock
}

func NewCartService(carts CartRepository, products ProductReader, clk clock.Clock) *CartService {
	return &CartService{carts: carts, products: products, clock: clk}
}

func (s *CartService) GetCart(ctx context.Context, userID string) (domain.Cart, error) {
	if userID == "" {
		return domain.Cart{}, domain.ErrInvalidID
	}
	return s.carts.GetCart(ctx, userID)
}

func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) (domain.Cart, error) {
	if userID == "" || productID == "" {
		return domain.Cart{}, domain.ErrInvalidID
	}
	if quantity <= 0 {
		return domain.Cart{}, domain.ErrInvalidQuantity
	}

	p, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return domain.Cart{}, err
	}

	now := s.clock.Now()
	var result domain.Cart

	err = s.carts.WithTx(ctx, func(txCtx context.Context) error {
		cart, err := s.carts.GetCart(txCtx, userID)
		if err != nil {
			return err
		}

		wanted := quantity
		if i := cart.FindItem(productID); i >= 0 {
			wanted += cart.Items[i].Quantity
		}
		// Advisory check only; the checkout reservation is what commits.
		if wanted > p.Stock {
			return &domain.InsufficientStockError{
				Shortfalls: []domain.StockShortfall{
					{ProductID: productID, Requested: wanted, Available: p.Stock},
				},
			}
		}

		if i := cart.FindItem(productID); i >= 0 {
			cart.Items[i].Quantity = wanted
		} else {
			cart.Items = append(cart.Items, domain.CartItem{
				ProductID:            productID,
				ProductName:          p.Name,
				Quantity:             quantity,
				PriceAtAdditionCents: p.PriceCents,
				AddedAt:              now,
			})
		}
		cart.UserID = userID
		cart.UpdatedAt = now

		if err := s.carts.SaveCart(txCtx, cart); err != nil {
			return err
		}
		result = cart
		return nil
	})
	if err != nil {
		return domain.Cart{}, err
	}
	return result, nil
}

func (s *CartService) UpdateItemQuantity(ctx context.Context, userID, productID string, quantity int) (domain.Cart, error) {
	if userID == "" || productID == "" {
		return domain.Cart{}, domain.ErrInvalidID
	}
	if quantity <= 0 {
		return domain.Cart{}, domain.ErrInvalidQuantity
	}

	now := s.clock.Now()
	var result domain.Cart

	err := s.carts.WithTx(ctx, func(txCtx context.Context) error {
		cart, err := s.carts.GetCart(txCtx, userID)
		if err != nil {
			return err
		}
		i := cart.FindItem(productID)
		if i < 0 {
			return domain.ErrCartItemNotFound
		}
		cart.Items[i].Quantity = quantity
		cart.UpdatedAt = now

		if err := s.carts.SaveCart(txCtx, cart); err != nil {
			return err
		}
		result = cart
		return nil
	})
	if err != nil {
		return domain.Cart{}, err
	}
	return result, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (domain.Cart, error) {
	if userID == "" || productID == "" {
		return domain.Cart{}, domain.ErrInvalidID
	}

	now := s.clock.Now()
	var result domain.Cart

	err := s.carts.WithTx(ctx, func(txCtx context.Context) error {
		cart, err := s.carts.GetCart(txCtx, userID)
		if err != nil {
			return err
		}
		i := cart.FindItem(productID)
		if i < 0 {
			return domain.ErrCartItemNotFound
		}
		cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
		cart.UpdatedAt = now

		if err := s.carts.SaveCart(txCtx, cart); err != nil {
			return err
		}
		result = cart
		return nil
	})
	if err != nil {
		return domain.Cart{}, err
	}
	return result, nil
}
